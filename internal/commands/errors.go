package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	botCommandInvalid   = "BOT_COMMAND_INVALID"
	botCommandCancelled = "BOT_COMMAND_CANCELLED"
	botCommandTimeout   = "BOT_COMMAND_TIMEOUT"
	botCommandContext   = "BOT_COMMAND_CONTEXT"
	botCommandFailed    = "BOT_COMMAND_FAILED"
)

// Error categories reported to telemetry.
const (
	ErrorCategoryValidation = "validation"
	ErrorCategoryNotFound   = "not_found"
	ErrorCategoryCommand    = "command"
	ErrorCategoryInternal   = "internal"
)

// tagged reports whether an inner layer already categorised err. Flow errors
// carry their own category and pass through untouched.
func tagged(err error) bool {
	return err == nil || goerrors.IsWrapped(err)
}

func wrapValidationError(err error) error {
	if tagged(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "bot command rejected").
		WithTextCode(botCommandInvalid)
}

func wrapContextError(err error) error {
	if tagged(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "bot command cancelled").
			WithTextCode(botCommandCancelled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "bot command timed out").
			WithTextCode(botCommandTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "bot command context error").
			WithTextCode(botCommandContext)
	}
}

func wrapExecuteError(err error) error {
	if tagged(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "bot command failed").
		WithTextCode(botCommandFailed)
}

// ErrorCategory names the category of err for logs and metrics labels.
func ErrorCategory(err error) string {
	switch {
	case err == nil:
		return ""
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		return ErrorCategoryValidation
	case goerrors.IsCategory(err, goerrors.CategoryNotFound):
		return ErrorCategoryNotFound
	case goerrors.IsCategory(err, goerrors.CategoryCommand):
		return ErrorCategoryCommand
	default:
		return ErrorCategoryInternal
	}
}
