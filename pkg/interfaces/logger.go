package interfaces

import "context"

// Logger is the leveled logger used across the bot. Its method set matches
// go-logger so that package plugs in through a thin adapter.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by dotted module name, e.g. bot.flows.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can bind fields to every
// subsequent entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
