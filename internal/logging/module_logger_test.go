package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// fieldsSpy records the field sets and contexts bound to it.
type fieldsSpy struct {
	bound    []map[string]any
	contexts []context.Context
}

func (s *fieldsSpy) Trace(string, ...any) {}
func (s *fieldsSpy) Debug(string, ...any) {}
func (s *fieldsSpy) Info(string, ...any)  {}
func (s *fieldsSpy) Warn(string, ...any)  {}
func (s *fieldsSpy) Error(string, ...any) {}
func (s *fieldsSpy) Fatal(string, ...any) {}

func (s *fieldsSpy) WithFields(fields map[string]any) interfaces.Logger {
	s.bound = append(s.bound, maps.Clone(fields))
	return s
}

func (s *fieldsSpy) WithContext(ctx context.Context) interfaces.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

type namedProvider struct {
	names  []string
	logger interfaces.Logger
}

func (p *namedProvider) GetLogger(name string) interfaces.Logger {
	p.names = append(p.names, name)
	return p.logger
}

func TestModuleLoggerWithoutProviderIsSilent(t *testing.T) {
	logger := ModuleLogger(nil, flowsModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger, got %T", logger)
	}
	logger = WithContext(logger, ContextWithChat(context.Background(), 7, 70))
	WithFields(logger, map[string]any{"flow": "create"}).Info("flow.start")
}

func TestModuleLoggerTagsModule(t *testing.T) {
	cases := []struct {
		name   string
		build  func(interfaces.LoggerProvider) interfaces.Logger
		module string
	}{
		{name: "root", build: func(p interfaces.LoggerProvider) interfaces.Logger { return ModuleLogger(p, "") }, module: rootModule},
		{name: "flows", build: FlowsLogger, module: flowsModule},
		{name: "records", build: RecordsLogger, module: recordsModule},
		{name: "seed", build: SeedLogger, module: seedModule},
		{name: "activity", build: ActivityLogger, module: activityModule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spy := &fieldsSpy{}
			provider := &namedProvider{logger: spy}
			_ = tc.build(provider)

			if diff := cmp.Diff([]string{tc.module}, provider.names); diff != "" {
				t.Fatalf("requested modules mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]map[string]any{{"module": tc.module}}, spy.bound); diff != "" {
				t.Fatalf("bound fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModuleLoggerFallsBackWhenProviderReturnsNil(t *testing.T) {
	provider := &namedProvider{}
	if _, ok := ModuleLogger(provider, recordsModule).(noopLogger); !ok {
		t.Fatal("expected noopLogger when the provider has no logger for the module")
	}
}

func TestWithFieldsCopiesInput(t *testing.T) {
	spy := &fieldsSpy{}
	fields := map[string]any{"flow": "update"}
	WithFields(spy, fields)
	fields["flow"] = "delete"

	if got := spy.bound[0]["flow"]; got != "update" {
		t.Fatalf("expected bound copy to keep update, got %v", got)
	}
}

func TestWithContextBindsChat(t *testing.T) {
	spy := &fieldsSpy{}
	ctx := ContextWithChat(context.Background(), 7, 70)
	WithContext(spy, ctx)

	if len(spy.contexts) != 1 {
		t.Fatalf("expected one bound context, got %d", len(spy.contexts))
	}
	if got := ContextFields(spy.contexts[0])["operator_id"]; got != int64(7) {
		t.Fatalf("expected operator_id 7, got %v", got)
	}
}
