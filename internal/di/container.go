package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-content-bot/internal/activity"
	"github.com/goliatone/go-content-bot/internal/activity/usersink"
	"github.com/goliatone/go-content-bot/internal/commands"
	"github.com/goliatone/go-content-bot/internal/commands/flowcmd"
	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/internal/flows"
	"github.com/goliatone/go-content-bot/internal/logging"
	"github.com/goliatone/go-content-bot/internal/logging/console"
	"github.com/goliatone/go-content-bot/internal/logging/gologger"
	"github.com/goliatone/go-content-bot/internal/permissions"
	recordsvc "github.com/goliatone/go-content-bot/internal/records"
	"github.com/goliatone/go-content-bot/internal/runtimeconfig"
	"github.com/goliatone/go-content-bot/internal/seed"
	"github.com/goliatone/go-content-bot/internal/storage"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	policies     *fields.Registry
	registerer   prometheus.Registerer
	presenter    interfaces.Presenter
	authorizer   interfaces.Authorizer
	activitySink interfaces.ActivitySink
	menus        []flowcmd.Menu

	recordRepo    recordsvc.Repository
	recordSvc     *recordsvc.Service
	conversations conversation.Store
	operators     *permissions.OperatorPolicy
	observer      flows.Observer
	emitter       *activity.Emitter
	engine        *flows.Engine
	router        *flowcmd.Router
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database instead of opening one from Storage.DSN.
// The caller keeps ownership of the handle.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithPolicies replaces the built-in content type policies.
func WithPolicies(registry *fields.Registry) Option {
	return func(c *Container) {
		c.policies = registry
	}
}

// WithRegisterer sets where flow metrics are registered. Defaults to the
// Prometheus default registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// WithPresenter installs the transport renderer and enables the router.
func WithPresenter(presenter interfaces.Presenter) Option {
	return func(c *Container) {
		c.presenter = presenter
	}
}

// WithAuthorizer replaces the operator policy built from Operators.
func WithAuthorizer(auth interfaces.Authorizer) Option {
	return func(c *Container) {
		c.authorizer = auth
	}
}

// WithActivitySink forwards completed flows to a go-users activity sink.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

// WithMenus registers browsing menus on the router.
func WithMenus(menus ...flowcmd.Menu) Option {
	return func(c *Container) {
		c.menus = append(c.menus, menus...)
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.policies == nil {
		c.policies = fields.DefaultRegistry()
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureConversations(); err != nil {
		c.closeDB()
		return nil, err
	}
	if err := c.configureEngine(); err != nil {
		c.closeDB()
		return nil, err
	}
	if err := c.configureRouter(); err != nil {
		c.closeDB()
		return nil, err
	}

	c.logger.Info("container.configured",
		"storage", normalized(cfg.Storage.Provider),
		"conversation", normalized(cfg.Conversation.Provider),
		"cache", c.cacheService != nil,
		"metrics", cfg.Features.Metrics,
		"activity", c.emitter.Enabled(),
	)
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		switch normalized(c.Config.Logging.Provider) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
				Redact:    c.Config.Logging.Redact,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			level, _ := console.ParseLevel(c.Config.Logging.Level)
			c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level, Redact: c.Config.Logging.Redact})
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "bot")
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || normalized(c.Config.Storage.Provider) == "memory" {
		return nil
	}
	db, err := storage.Open(storage.Config{
		Provider: c.Config.Storage.Provider,
		DSN:      c.Config.Storage.DSN,
	})
	if err != nil {
		return err
	}
	if err := storage.Bootstrap(context.Background(), db); err != nil {
		_ = db.Close()
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.cache.disabled", "error", err)
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		c.recordRepo = recordsvc.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		c.recordRepo = recordsvc.NewMemoryRepository()
	}
	c.recordSvc = recordsvc.NewService(c.recordRepo, c.policies,
		recordsvc.WithLogger(logging.RecordsLogger(c.loggerProvider)),
	)
}

func (c *Container) configureConversations() error {
	cfg := c.Config.Conversation
	switch normalized(cfg.Provider) {
	case "bun":
		if c.bunDB == nil {
			return runtimeconfig.ErrConversationRequiresDatabase
		}
		c.conversations = conversation.NewBunStore(c.bunDB, conversation.WithTTL(cfg.TTL))
	default:
		c.conversations = conversation.NewMemoryStore(cfg.Capacity, cfg.TTL)
	}
	return nil
}

func (c *Container) configureEngine() error {
	c.operators = permissions.NewOperatorPolicy(c.Config.Operators.Admins, c.Config.Operators.Managers)
	authorizer := c.authorizer
	if authorizer == nil {
		authorizer = c.operators
	}

	if c.Config.Features.Metrics {
		reg := c.registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		observer, err := flows.NewPrometheusObserver(c.Config.Metrics.Namespace, reg)
		if err != nil {
			return fmt.Errorf("container: flow metrics: %w", err)
		}
		c.observer = observer
	}

	if c.Config.Features.Activity || c.activitySink != nil {
		sink := c.activitySink
		if sink == nil {
			sink = usersink.LogSink{Logger: logging.ActivityLogger(c.loggerProvider)}
		}
		c.emitter = activity.NewEmitter([]activity.Hook{usersink.Hook{Sink: sink}})
	}

	opts := []flows.Option{
		flows.WithAuthorizer(authorizer),
		flows.WithLogger(logging.FlowsLogger(c.loggerProvider)),
		flows.WithPageSize(c.Config.Pagination.PageSize),
		flows.WithPolicies(c.policies),
		flows.WithPresenter(c.presenter),
		flows.WithActivity(c.emitter),
	}
	if c.observer != nil {
		opts = append(opts, flows.WithObserver(c.observer))
	}
	engine, err := flows.NewEngine(c.recordSvc, c.conversations, opts...)
	if err != nil {
		return err
	}
	c.engine = engine
	return nil
}

func (c *Container) configureRouter() error {
	if c.presenter == nil {
		return nil
	}
	router, err := flowcmd.NewRouter(c.engine, c.presenter,
		flowcmd.WithRouterLogger(commands.CommandLogger(c.loggerProvider, "flows")),
		flowcmd.WithPrivileges(c.operators),
	)
	if err != nil {
		return err
	}
	for _, menu := range c.menus {
		if err := router.RegisterMenu(menu); err != nil {
			return err
		}
	}
	c.router = router
	return nil
}

// Seed imports the default records and the configured seed directory. It is
// a no-op unless the seed feature is enabled.
func (c *Container) Seed(ctx context.Context) (*seed.Result, error) {
	if !c.Config.Features.Seed {
		return &seed.Result{}, nil
	}
	importer, err := c.Importer()
	if err != nil {
		return nil, err
	}
	total := &seed.Result{}
	if c.Config.Seed.Defaults {
		result, err := importer.Import(ctx, seed.DefaultPortfolio())
		if err != nil {
			return nil, err
		}
		merge(total, result)
	}
	if dir := strings.TrimSpace(c.Config.Seed.Dir); dir != "" {
		result, err := importer.ImportDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		merge(total, result)
	}
	return total, nil
}

// Importer returns a seed importer bound to the record service.
func (c *Container) Importer() (*seed.Importer, error) {
	return seed.NewImporter(c.recordSvc,
		seed.WithLogger(logging.SeedLogger(c.loggerProvider)),
		seed.WithLoaderConfig(seed.LoaderConfig{
			Pattern:   c.Config.Seed.Pattern,
			Recursive: c.Config.Seed.Recursive,
		}),
	)
}

// Close releases the database the container opened.
func (c *Container) Close() error {
	return c.closeDB()
}

func (c *Container) closeDB() error {
	if !c.ownsDB || c.bunDB == nil {
		return nil
	}
	c.ownsDB = false
	return c.bunDB.Close()
}

func (c *Container) Engine() *flows.Engine {
	return c.engine
}

// Router is nil unless a presenter was supplied.
func (c *Container) Router() *flowcmd.Router {
	return c.router
}

func (c *Container) RecordService() *recordsvc.Service {
	return c.recordSvc
}

func (c *Container) Conversations() conversation.Store {
	return c.conversations
}

func (c *Container) Operators() *permissions.OperatorPolicy {
	return c.operators
}

func (c *Container) Policies() *fields.Registry {
	return c.policies
}

func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func merge(total, result *seed.Result) {
	if result == nil {
		return
	}
	total.Created = append(total.Created, result.Created...)
	total.Skipped = append(total.Skipped, result.Skipped...)
	total.Errors = append(total.Errors, result.Errors...)
}

func normalized(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
