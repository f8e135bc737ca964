package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-content-bot/internal/logging"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("bot.test")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := logger.WithFields(map[string]any{"module": "bot.test"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	// Ensure chained operations do not panic.
	child.Debug("adapter.initialised")
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := (&Provider{}).wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"entity": "record"}
	child := adapted.WithFields(fields)
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["entity"] = "conversation"
	if len(stub.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(stub.fields))
	}
	if stub.fields[0]["entity"] != "record" {
		t.Fatalf("expected fields to be cloned, got %v", stub.fields[0]["entity"])
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

func TestAdapterRedactsOperatorText(t *testing.T) {
	stub := &stubLogger{}
	adapted := (&Provider{redact: logging.RedactSet(nil)}).wrap(stub)

	args := []any{"text", "+7 900 000-00-00", "state", "create.name"}
	adapted.Info("flow.input", args...)
	adapted.WithFields(map[string]any{"caption": "Новый офис", "flow": "create"})

	if got := stub.args[0][1]; got != logging.Redacted {
		t.Fatalf("expected text to be redacted, got %v", got)
	}
	if got := stub.args[0][3]; got != "create.name" {
		t.Fatalf("expected state to pass through, got %v", got)
	}
	if args[1] != "+7 900 000-00-00" {
		t.Fatal("expected caller args to stay untouched")
	}
	if got := stub.fields[0]["caption"]; got != logging.Redacted {
		t.Fatalf("expected caption field to be redacted, got %v", got)
	}
}

func TestAdapterLiftsContextFields(t *testing.T) {
	stub := &stubLogger{}
	adapted := (&Provider{}).wrap(stub)

	ctx := logging.ContextWithChat(context.Background(), 7, 70)
	adapted.WithContext(ctx)

	if len(stub.fields) != 1 {
		t.Fatalf("expected chat fields to be applied once, got %d", len(stub.fields))
	}
	if stub.fields[0]["operator_id"] != int64(7) || stub.fields[0]["chat_id"] != int64(70) {
		t.Fatalf("unexpected lifted fields %v", stub.fields[0])
	}
}

type stubLogger struct {
	args     [][]any
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }

func (s *stubLogger) Info(_ string, args ...any) {
	s.calls = append(s.calls, "info")
	s.args = append(s.args, args)
}

func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
