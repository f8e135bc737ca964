package conversation

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-bot/internal/identity"
)

// StoredContext is the persisted form of a conversation context.
type StoredContext struct {
	bun.BaseModel `bun:"table:conversation_contexts,alias:cc"`

	ID         uuid.UUID `bun:",pk,type:uuid"                json:"id"`
	OperatorID int64     `bun:"operator_id,notnull"          json:"operator_id"`
	ChatID     int64     `bun:"chat_id,notnull"              json:"chat_id"`
	Flow       string    `bun:"flow,notnull"                 json:"flow"`
	State      string    `bun:"state,notnull"                json:"state"`
	Snapshot   Context   `bun:"snapshot,type:jsonb,notnull"  json:"snapshot"`
	ExpiresAt  time.Time `bun:"expires_at,nullzero"          json:"expires_at,omitempty"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// BunStore persists contexts so flows survive process restarts.
type BunStore struct {
	repo repository.Repository[*StoredContext]
	ttl  time.Duration
	now  func() time.Time
}

var _ Store = (*BunStore)(nil)

// BunStoreOption configures a BunStore.
type BunStoreOption func(*BunStore)

// WithTTL expires stored contexts after ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) BunStoreOption {
	return func(s *BunStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the clock used for expiry checks.
func WithClock(clock func() time.Time) BunStoreOption {
	return func(s *BunStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

func newContextRepository(db *bun.DB) repository.Repository[*StoredContext] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*StoredContext]{
		NewRecord: func() *StoredContext { return &StoredContext{} },
		GetID: func(c *StoredContext) uuid.UUID {
			return c.ID
		},
		SetID: func(c *StoredContext, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(c *StoredContext) string {
			if c == nil {
				return ""
			}
			return c.ID.String()
		},
	})
}

// NewBunStore builds a bun-backed conversation store.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) *BunStore {
	store := &BunStore{
		repo: newContextRepository(db),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *BunStore) Load(ctx context.Context, key Key) (*Context, error) {
	if key.IsZero() {
		return nil, ErrKeyRequired
	}
	stored, err := s.repo.GetByID(ctx, storedID(key).String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, ErrNoActiveFlow
		}
		return nil, fmt.Errorf("conversation: load %s: %w", key, err)
	}
	if !stored.ExpiresAt.IsZero() && !s.now().Before(stored.ExpiresAt) {
		_ = s.Clear(ctx, key)
		return nil, ErrNoActiveFlow
	}
	snapshot := stored.Snapshot.Clone()
	snapshot.Key = key
	return snapshot, nil
}

func (s *BunStore) Save(ctx context.Context, convo *Context) error {
	if convo == nil || convo.Key.IsZero() {
		return ErrKeyRequired
	}
	now := s.now()
	stored := &StoredContext{
		ID:         storedID(convo.Key),
		OperatorID: convo.Key.OperatorID,
		ChatID:     convo.Key.ChatID,
		Flow:       string(convo.Flow),
		State:      convo.State,
		Snapshot:   *convo.Clone(),
		UpdatedAt:  now,
	}
	if s.ttl > 0 {
		stored.ExpiresAt = now.Add(s.ttl)
	}

	_, err := s.repo.GetByID(ctx, stored.ID.String())
	switch {
	case err == nil:
		_, err = s.repo.Update(ctx, stored)
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		_, err = s.repo.Create(ctx, stored)
	}
	if err != nil {
		return fmt.Errorf("conversation: save %s: %w", convo.Key, err)
	}
	return nil
}

func (s *BunStore) Clear(ctx context.Context, key Key) error {
	err := s.repo.Delete(ctx, &StoredContext{ID: storedID(key)})
	if err != nil && !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("conversation: clear %s: %w", key, err)
	}
	return nil
}

func storedID(key Key) uuid.UUID {
	return identity.ConversationUUID(key.OperatorID, key.ChatID)
}
