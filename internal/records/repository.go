package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-bot/records"
)

var (
	ErrUnknownContentType = errors.New("records: unknown content type")
	ErrNameRequired       = errors.New("records: name is required")
	ErrNameInvalid        = errors.New("records: name exceeds display limit")
	ErrNameExists         = errors.New("records: name already exists")
	ErrScopeRequired      = errors.New("records: scope is required")
	ErrIDRequired         = errors.New("records: record id required")
	ErrPayloadInvalid     = errors.New("records: payload failed validation")
)

// Repository persists records.
type Repository interface {
	Create(ctx context.Context, record *records.Record) (*records.Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*records.Record, error)
	GetByName(ctx context.Context, contentType, scope, name string) (*records.Record, error)
	List(ctx context.Context, contentType, scope string) ([]*records.Record, error)
	Update(ctx context.Context, record *records.Record) (*records.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a record lookup misses.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err is a record miss.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
