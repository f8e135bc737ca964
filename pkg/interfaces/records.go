package interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-bot/records"
)

// RecordStore is the persistence gateway consumed by the flow engine. Keys are
// scoped by content type and, where the content type nests under a parent,
// by scope.
type RecordStore interface {
	Create(ctx context.Context, req CreateRecordRequest) (*records.Record, error)
	Update(ctx context.Context, req UpdateRecordRequest) (*records.Record, error)
	Remove(ctx context.Context, id uuid.UUID) error
	GetByNameOrID(ctx context.Context, contentType, scope, key string) (*records.Record, error)
	List(ctx context.Context, contentType, scope string) ([]*records.Record, error)
}

// CreateRecordRequest carries the fields captured by a completed create flow.
type CreateRecordRequest struct {
	ID          uuid.UUID
	ContentType string
	Scope       string
	Fields      records.Fields
	ActorID     int64
}

// UpdateRecordRequest is a partial patch. Only keys present in Fields change.
type UpdateRecordRequest struct {
	ID      uuid.UUID
	Fields  records.Fields
	ActorID int64
}
