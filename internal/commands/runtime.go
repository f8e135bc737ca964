package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-content-bot/internal/logging"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// DefaultCommandTimeout bounds the handling of one chat event. Storage and
// presenter calls made for the event share this budget.
const DefaultCommandTimeout = 15 * time.Second

// eventContext derives the context a chat event is handled under. A nil
// parent is treated as background and a non-positive timeout disables the
// deadline.
func eventContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// EnsureLogger substitutes the no-op logger for nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
