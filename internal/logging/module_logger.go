package logging

import (
	"context"

	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

const (
	rootModule     = "bot"
	flowsModule    = "bot.flows"
	recordsModule  = "bot.records"
	seedModule     = "bot.seed"
	activityModule = "bot.activity"
)

// ModuleLogger returns the provider's logger for module tagged with a module
// field. A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}
	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// FlowsLogger is used by the flow engine.
func FlowsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, flowsModule)
}

// RecordsLogger is used by the record service.
func RecordsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, recordsModule)
}

func SeedLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, seedModule)
}

// ActivityLogger backs the log activity sink.
func ActivityLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, activityModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
