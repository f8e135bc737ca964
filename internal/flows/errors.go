package flows

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-content-bot/internal/conversation"
)

const (
	flowValidationCode  = "FLOW_VALIDATION_FAILED"
	flowNotFoundCode    = "FLOW_RECORD_NOT_FOUND"
	flowPersistenceCode = "FLOW_PERSISTENCE_FAILED"
)

var (
	ErrUnknownFlow        = errors.New("flows: unknown flow")
	ErrUnknownContentType = errors.New("flows: unknown content type")
	ErrKeyRequired        = errors.New("flows: conversation key required")
	ErrUnknownState       = errors.New("flows: unknown state")
	ErrInvalidRoute       = errors.New("flows: effect routed to an undeclared state")
)

// ValidationError is a recoverable input failure. Message is operator copy.
type ValidationError struct {
	Field   string
	Message string
	tag     *goerrors.Error
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		tag: goerrors.New("flow input rejected", goerrors.CategoryValidation).
			WithTextCode(flowValidationCode),
	}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "flows: invalid input"
	}
	return fmt.Sprintf("flows: invalid %s", e.Field)
}

func (e *ValidationError) Unwrap() error { return e.tag }

// NotFoundError reports a selection that no longer resolves to a record.
type NotFoundError struct {
	ContentType string
	Key         string
	Err         error
	tag         *goerrors.Error
}

func newNotFoundError(contentType, key string, cause error) *NotFoundError {
	return &NotFoundError{
		ContentType: contentType,
		Key:         key,
		Err:         cause,
		tag: goerrors.New("flow record not found", goerrors.CategoryNotFound).
			WithTextCode(flowNotFoundCode),
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("flows: %s %q not found", e.ContentType, e.Key)
}

func (e *NotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.tag}
	}
	return []error{e.tag, e.Err}
}

// PersistenceError reports a failed terminal write.
type PersistenceError struct {
	Flow        conversation.Flow
	ContentType string
	Err         error
	tag         *goerrors.Error
}

func newPersistenceError(flow conversation.Flow, contentType string, cause error) *PersistenceError {
	return &PersistenceError{
		Flow:        flow,
		ContentType: contentType,
		Err:         cause,
		tag: goerrors.New("flow persistence failed", goerrors.CategoryInternal).
			WithTextCode(flowPersistenceCode),
	}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("flows: %s %s failed: %v", e.Flow, e.ContentType, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{e.tag, e.Err} }

// IsValidation reports whether err is a rejected input.
func IsValidation(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// IsNotFound reports whether err is a missing selection.
func IsNotFound(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

// IsPersistence reports whether err is a failed terminal write. The internal
// category is shared with unrelated failures, so the concrete type is checked.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
