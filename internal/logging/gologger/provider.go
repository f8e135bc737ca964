package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-content-bot/internal/logging"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// Config mirrors the logging section of the bot configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
	// Redact masks the values of these keys, see logging.RedactSet.
	Redact []string
}

// Provider hands out go-logger children per bot module.
type Provider struct {
	root   *glog.BaseLogger
	redact map[string]struct{}
}

// NewProvider builds the go-logger root. Format is json (default), console
// or pretty.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option
	if level, ok := glogLevels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := trimmed(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root, redact: logging.RedactSet(cfg.Redact)}, nil
}

var glogLevels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return p.wrap(p.root)
	}
	return p.wrap(p.root.GetLogger(name))
}

// Redacts returns the keys masked by loggers from this provider.
func (p *Provider) Redacts() map[string]struct{} {
	if p == nil {
		return nil
	}
	return maps.Clone(p.redact)
}

func (p *Provider) wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner, redact: p.redact}
}

type adapter struct {
	inner  glog.Logger
	redact map[string]struct{}
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, l.scrub(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, l.scrub(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, l.scrub(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.scrub(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, l.scrub(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.scrub(args)...) }

func (l *adapter) child(inner glog.Logger) *adapter {
	if inner == nil {
		return l
	}
	return &adapter{inner: inner, redact: l.redact}
}

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	fields = l.scrubFields(fields)
	if with, ok := l.inner.(glog.FieldsLogger); ok {
		return l.child(with.WithFields(fields))
	}
	if with, ok := l.inner.(interface{ With(...any) *glog.BaseLogger }); ok {
		args := make([]any, 0, len(fields)*2)
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			args = append(args, key, fields[key])
		}
		return l.child(with.With(args...))
	}
	return l
}

// WithContext binds ctx and lifts the chat fields stored on it, which
// go-logger cannot read on its own.
func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	bound := l.child(l.inner.WithContext(ctx))
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		return bound.WithFields(fields)
	}
	return bound
}

func (l *adapter) scrub(args []any) []any {
	if len(l.redact) == 0 || len(args) < 2 {
		return args
	}
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if _, masked := l.redact[key]; masked {
			if out == nil {
				out = slices.Clone(args)
			}
			out[i+1] = logging.Redacted
		}
	}
	if out == nil {
		return args
	}
	return out
}

func (l *adapter) scrubFields(fields map[string]any) map[string]any {
	out := maps.Clone(fields)
	for key := range out {
		if _, masked := l.redact[key]; masked {
			out[key] = logging.Redacted
		}
	}
	return out
}

func trimmed(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
