package records

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/internal/logging"
	"github.com/goliatone/go-content-bot/internal/validation"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

// ServiceOption configures the record service.
type ServiceOption func(*Service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *Service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service implements interfaces.RecordStore on top of a Repository.
type Service struct {
	repo     Repository
	policies *fields.Registry
	now      func() time.Time
	id       IDGenerator
	logger   interfaces.Logger
}

var _ interfaces.RecordStore = (*Service)(nil)

// NewService wires the record service.
func NewService(repo Repository, policies *fields.Registry, opts ...ServiceOption) *Service {
	if policies == nil {
		policies = fields.DefaultRegistry()
	}
	s := &Service{
		repo:     repo,
		policies: policies,
		now:      time.Now,
		id:       uuid.New,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates captured fields against the content type policy and
// stores a new record.
func (s *Service) Create(ctx context.Context, req interfaces.CreateRecordRequest) (*records.Record, error) {
	policy, ok := s.policies.Lookup(req.ContentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, req.ContentType)
	}

	captured := req.Fields.Clone()
	if captured == nil {
		captured = records.Fields{}
	}
	name := strings.TrimSpace(captured[records.FieldName])
	if name == "" {
		return nil, ErrNameRequired
	}
	if !validation.IsValidDisplayName(name) {
		return nil, ErrNameInvalid
	}
	captured[records.FieldName] = name

	scope := strings.TrimSpace(req.Scope)
	if policy.Scoped {
		if scope == "" {
			return nil, ErrScopeRequired
		}
		captured[records.FieldScope] = scope
	} else {
		scope = ""
		delete(captured, records.FieldScope)
	}

	if err := validation.ValidatePayload(policy.Schema(), payload(captured)); err != nil {
		s.logger.Warn("records.create.rejected", "content_type", policy.ContentType, "fields", validation.RejectedFields(err))
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}

	if existing, err := s.repo.GetByName(ctx, policy.ContentType, scope, name); err == nil && existing != nil {
		return nil, ErrNameExists
	} else if err != nil && !IsNotFound(err) {
		return nil, err
	}

	now := s.now()
	id := req.ID
	if id == uuid.Nil {
		id = s.id()
	}
	record := &records.Record{
		ID:          id,
		ContentType: policy.ContentType,
		CreatedBy:   req.ActorID,
		UpdatedBy:   req.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	record.Apply(captured)

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		s.logger.Error("records.create.failed", "content_type", policy.ContentType, "error", err)
		return nil, err
	}
	s.logger.Debug("records.create.success", "content_type", policy.ContentType, "record_id", created.ID)
	return created, nil
}

// Update applies a partial patch. Fields absent from the request keep their
// stored values, so repeating an identical patch leaves the record unchanged.
func (s *Service) Update(ctx context.Context, req interfaces.UpdateRecordRequest) (*records.Record, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	policy, ok := s.policies.Lookup(record.ContentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, record.ContentType)
	}

	patch := req.Fields.Clone()
	delete(patch, records.FieldScope)
	if len(patch) == 0 {
		return record, nil
	}

	if raw, ok := patch[records.FieldName]; ok {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, ErrNameRequired
		}
		if !validation.IsValidDisplayName(name) {
			return nil, ErrNameInvalid
		}
		patch[records.FieldName] = name
		if name != record.Name {
			existing, lookupErr := s.repo.GetByName(ctx, record.ContentType, record.Scope, name)
			if lookupErr == nil && existing != nil && existing.ID != record.ID {
				return nil, ErrNameExists
			}
			if lookupErr != nil && !IsNotFound(lookupErr) {
				return nil, lookupErr
			}
		}
	}

	if err := validation.ValidatePartialPayload(policy.Schema(), payload(patch)); err != nil {
		s.logger.Warn("records.update.rejected", "record_id", req.ID, "fields", validation.RejectedFields(err))
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}

	record.Apply(patch)
	record.UpdatedAt = s.now()
	if req.ActorID != 0 {
		record.UpdatedBy = req.ActorID
	}

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		s.logger.Error("records.update.failed", "record_id", req.ID, "error", err)
		return nil, err
	}
	s.logger.Debug("records.update.success", "record_id", updated.ID)
	return updated, nil
}

// Remove deletes a record by id.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrIDRequired
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("records.remove.failed", "record_id", id, "error", err)
		return err
	}
	s.logger.Debug("records.remove.success", "record_id", id)
	return nil
}

// GetByNameOrID resolves uuid keys by id and anything else by display name.
// Both forms are confined to the content type and, for scoped types, the scope.
func (s *Service) GetByNameOrID(ctx context.Context, contentType, scope, key string) (*records.Record, error) {
	policy, ok := s.policies.Lookup(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, contentType)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &NotFoundError{Resource: "record"}
	}
	scope = strings.TrimSpace(scope)
	if !policy.Scoped {
		scope = ""
	}
	if id, err := uuid.Parse(key); err == nil {
		record, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		// ids resolve only inside the requested content type and scope, so a
		// stale keyboard from another scope cannot reach the record.
		if record.ContentType != policy.ContentType || (policy.Scoped && record.Scope != scope) {
			return nil, &NotFoundError{Resource: "record", Key: key}
		}
		return record, nil
	}
	return s.repo.GetByName(ctx, policy.ContentType, scope, key)
}

// List returns the records of a content type sorted by display name.
func (s *Service) List(ctx context.Context, contentType, scope string) ([]*records.Record, error) {
	policy, ok := s.policies.Lookup(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, contentType)
	}
	if !policy.Scoped {
		scope = ""
	}
	found, err := s.repo.List(ctx, policy.ContentType, strings.TrimSpace(scope))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool {
		return strings.ToLower(found[i].Name) < strings.ToLower(found[j].Name)
	})
	return found, nil
}

func payload(captured records.Fields) map[string]any {
	out := make(map[string]any, len(captured))
	for key, value := range captured {
		out[key] = value
	}
	return out
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrNameExists)
}
