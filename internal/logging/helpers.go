package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// WithFields attaches fields when the logger implements FieldsLogger and
// returns it unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// WithContext binds ctx so its chat fields reach every entry.
func WithContext(logger interfaces.Logger, ctx context.Context) interfaces.Logger {
	if logger == nil || ctx == nil {
		return logger
	}
	if bound := logger.WithContext(ctx); bound != nil {
		return bound
	}
	return logger
}
