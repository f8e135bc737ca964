package conversation

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCapacity = 1024
	DefaultTTL      = 24 * time.Hour
)

// MemoryStore keeps contexts in an expiring LRU so abandoned conversations
// are eventually dropped.
type MemoryStore struct {
	cache *expirable.LRU[Key, *Context]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store holding at most capacity contexts for ttl.
// A non-positive ttl keeps entries until capacity evicts them and avoids the
// background expiry goroutine.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryStore{
		cache: expirable.NewLRU[Key, *Context](capacity, nil, ttl),
	}
}

func (s *MemoryStore) Load(_ context.Context, key Key) (*Context, error) {
	if key.IsZero() {
		return nil, ErrKeyRequired
	}
	convo, ok := s.cache.Get(key)
	if !ok || convo == nil {
		return nil, ErrNoActiveFlow
	}
	return convo.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, convo *Context) error {
	if convo == nil || convo.Key.IsZero() {
		return ErrKeyRequired
	}
	s.cache.Add(convo.Key, convo.Clone())
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, key Key) error {
	s.cache.Remove(key)
	return nil
}

// Len reports how many conversations are tracked.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
