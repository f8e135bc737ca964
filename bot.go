package contentbot

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-bot/internal/commands/flowcmd"
	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/di"
	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/internal/flows"
	recordsvc "github.com/goliatone/go-content-bot/internal/records"
	"github.com/goliatone/go-content-bot/internal/seed"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// ErrRouterNotConfigured is returned by Route when the module was built
// without a presenter.
var ErrRouterNotConfigured = errors.New("contentbot: router requires a presenter")

type (
	// Engine runs the create, update and delete flows.
	Engine = flows.Engine
	// RecordService persists content records.
	RecordService = recordsvc.Service
	// Router maps transport events onto flow commands.
	Router = flowcmd.Router
	Event  = flowcmd.Event
	Menu   = flowcmd.Menu

	Presenter  = interfaces.Presenter
	Prompt     = interfaces.Prompt
	ChatRef    = interfaces.ChatRef
	Authorizer = interfaces.Authorizer
	SeedResult = seed.Result
	Policies   = fields.Registry

	Flow   = conversation.Flow
	Option = di.Option
)

const (
	FlowCreate = conversation.FlowCreate
	FlowUpdate = conversation.FlowUpdate
	FlowDelete = conversation.FlowDelete
)

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithPresenter      = di.WithPresenter
	WithAuthorizer     = di.WithAuthorizer
	WithActivitySink   = di.WithActivitySink
	WithMenus          = di.WithMenus
	WithPolicies       = di.WithPolicies
)

// WithBunDB reuses an open database. The module does not close it.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithRegisterer sets the Prometheus registerer used for flow metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return di.WithRegisterer(reg)
}

// Module is the entry point for embedding the content bot.
type Module struct {
	container *di.Container
}

// New wires a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Engine returns the flow engine.
func (m *Module) Engine() *Engine {
	return m.container.Engine()
}

// Records returns the record service backing the flows.
func (m *Module) Records() *RecordService {
	return m.container.RecordService()
}

// Router returns the event router, or nil when no presenter was supplied.
func (m *Module) Router() *Router {
	return m.container.Router()
}

// Policies returns the content type registry.
func (m *Module) Policies() *Policies {
	return m.container.Policies()
}

// Route delivers one transport event.
func (m *Module) Route(ctx context.Context, ev Event) error {
	router := m.container.Router()
	if router == nil {
		return ErrRouterNotConfigured
	}
	return router.Route(ctx, ev)
}

// Seed imports the default records and the configured seed directory.
func (m *Module) Seed(ctx context.Context) (*SeedResult, error) {
	return m.container.Seed(ctx)
}

// AdminCallback is the callback that starts flow from a content menu.
func AdminCallback(menu string, flow Flow) string {
	return flowcmd.AdminCallback(menu, flow)
}

// Close releases any database the module opened.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
