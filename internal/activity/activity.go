package activity

import (
	"context"
	"errors"
	"maps"
	"time"
)

// Event describes one completed operator action.
type Event struct {
	Verb       string
	OperatorID int64
	ChatID     int64
	ObjectType string
	ObjectID   string
	ObjectName string
	Scope      string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Hook receives emitted events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function into a Hook.
type HookFunc func(ctx context.Context, event Event) error

func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Emitter fans events out to every registered hook.
type Emitter struct {
	hooks   []Hook
	channel string
	now     func() time.Time
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithChannel sets the channel stamped on events that carry none.
func WithChannel(channel string) EmitterOption {
	return func(e *Emitter) {
		e.channel = channel
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) EmitterOption {
	return func(e *Emitter) {
		if clock != nil {
			e.now = clock
		}
	}
}

// NewEmitter builds an emitter. Nil hooks are skipped.
func NewEmitter(hooks []Hook, opts ...EmitterOption) *Emitter {
	emitter := &Emitter{
		channel: "bot",
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, hook := range hooks {
		if hook != nil {
			emitter.hooks = append(emitter.hooks, hook)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(emitter)
		}
	}
	return emitter
}

// Enabled reports whether any hook is registered.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit delivers event to every hook and joins their errors.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if event.Channel == "" {
		event.Channel = e.channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now()
	}
	var errs []error
	for _, hook := range e.hooks {
		copied := event
		copied.Metadata = maps.Clone(event.Metadata)
		if err := hook.Notify(ctx, copied); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
