package flowcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-content-bot/internal/commands"
	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/flows"
	"github.com/goliatone/go-content-bot/internal/logging"
	"github.com/goliatone/go-content-bot/internal/permissions"
	"github.com/goliatone/go-content-bot/internal/presentation"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

var (
	// ErrPresenterRequired is returned when a router is built without a presenter.
	ErrPresenterRequired = errors.New("flow command: presenter is nil")
	// ErrMenuCodeRequired is returned when registering a menu without a code.
	ErrMenuCodeRequired = errors.New("flow command: menu code required")
)

// Menu is a browsing screen. Menus bound to a content type expose the edit
// overlay to privileged operators.
type Menu struct {
	Code        string
	Text        string
	ContentType string
	Scope       string
	Options     []interfaces.Option
	// Parent is the callback of the menu's back control.
	Parent string
}

// Privileges reports whether an operator sees admin controls.
type Privileges interface {
	IsPrivileged(operatorID int64) bool
}

// Event is one inbound transport update.
type Event struct {
	OperatorID int64
	ChatID     int64
	Text       string
	Callback   string
	Media      *interfaces.Media
}

// RouterCopy holds the texts the router renders itself.
type RouterCopy struct {
	AdminPrompt    string
	Create         string
	Update         string
	Delete         string
	Denied         string
	CaptionTooLong string
}

// DefaultRouterCopy returns the texts the bot ships with.
func DefaultRouterCopy() RouterCopy {
	return RouterCopy{
		AdminPrompt:    "Выберите действие:",
		Create:         "Добавить",
		Update:         "Изменить",
		Delete:         "Удалить",
		Denied:         "Недостаточно прав для этого действия.",
		CaptionTooLong: "Длина текста не должна превышать 2200 символов",
	}
}

func (c RouterCopy) merged() RouterCopy {
	defaults := DefaultRouterCopy()
	if c.AdminPrompt == "" {
		c.AdminPrompt = defaults.AdminPrompt
	}
	if c.Create == "" {
		c.Create = defaults.Create
	}
	if c.Update == "" {
		c.Update = defaults.Update
	}
	if c.Delete == "" {
		c.Delete = defaults.Delete
	}
	if c.Denied == "" {
		c.Denied = defaults.Denied
	}
	if c.CaptionTooLong == "" {
		c.CaptionTooLong = defaults.CaptionTooLong
	}
	return c
}

// RouterOption customises a Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger used by the router and its handlers.
func WithRouterLogger(logger interfaces.Logger) RouterOption {
	return func(r *Router) {
		r.logger = commands.EnsureLogger(logger)
	}
}

// WithPrivileges installs the check deciding who sees the edit overlay.
func WithPrivileges(privileges Privileges) RouterOption {
	return func(r *Router) {
		r.privileges = privileges
	}
}

// WithRouterCopy overrides router texts. Blank entries keep their defaults.
func WithRouterCopy(text RouterCopy) RouterOption {
	return func(r *Router) {
		r.copy = text.merged()
	}
}

// WithMaxRetries sets how often the runner retries a failed command.
func WithMaxRetries(retries int) RouterOption {
	return func(r *Router) {
		if retries >= 0 {
			r.retries = retries
		}
	}
}

// Router turns transport events into flow commands and runs them against its
// own engine. Handlers are owned by the router and never registered with the
// process-wide go-command dispatcher, so several routers can share a process
// without handling each other's events.
type Router struct {
	engine     *flows.Engine
	presenter  interfaces.Presenter
	privileges Privileges
	logger     interfaces.Logger
	copy       RouterCopy
	retries    int

	run    *runner.Handler
	start  *StartFlowHandler
	submit *SubmitInputHandler
	cancel *CancelFlowHandler

	mu    sync.RWMutex
	menus map[string]Menu
}

// NewRouter builds a router bound to engine and presenter.
func NewRouter(engine *flows.Engine, presenter interfaces.Presenter, opts ...RouterOption) (*Router, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if presenter == nil {
		return nil, ErrPresenterRequired
	}
	r := &Router{
		engine:    engine,
		presenter: presenter,
		logger:    commands.EnsureLogger(nil),
		copy:      DefaultRouterCopy(),
		menus:     make(map[string]Menu),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.run = runner.NewHandler(
		runner.WithMaxRetries(r.retries),
		runner.WithErrorHandler(func(err error) {
			r.logger.Error("flow.router.command_failed", "error", err)
		}),
		runner.WithDoneHandler(nil),
	)
	r.start = NewStartFlowHandler(engine, r.logger, r.handleResult)
	r.submit = NewSubmitInputHandler(engine, r.logger, r.handleResult)
	// Cancellation is silent: the router renders the destination menu itself.
	r.cancel = NewCancelFlowHandler(engine, r.logger, nil)
	return r, nil
}

// RegisterMenu adds or replaces a browsing menu.
func (r *Router) RegisterMenu(menu Menu) error {
	menu.Code = strings.TrimSpace(menu.Code)
	if menu.Code == "" {
		return ErrMenuCodeRequired
	}
	r.mu.Lock()
	r.menus[menu.Code] = menu
	r.mu.Unlock()
	return nil
}

// Show renders a registered menu.
func (r *Router) Show(ctx context.Context, chat interfaces.ChatRef, code string) error {
	menu, ok := r.menu(code)
	if !ok {
		return fmt.Errorf("flow command: unknown menu %q", code)
	}
	return r.showMenu(ctx, chat, menu)
}

// Route handles one transport event.
func (r *Router) Route(ctx context.Context, ev Event) error {
	ctx = logging.ContextWithChat(ctx, ev.OperatorID, ev.ChatID)
	chat := chatRef(ev.OperatorID, ev.ChatID)
	if ev.Media != nil && !presentation.CaptionFits(ev.Media.Caption) {
		return r.render(ctx, chat, interfaces.Prompt{Text: r.copy.CaptionTooLong})
	}

	callback := strings.TrimSpace(ev.Callback)
	if callback != "" {
		if menu, ok := r.menu(callback); ok {
			if err := runner.RunCommand(ctx, r.run, r.cancel, CancelFlowCommand{OperatorID: ev.OperatorID, ChatID: ev.ChatID}); err != nil {
				return err
			}
			return r.showMenu(ctx, chat, menu)
		}
		if code, ok := presentation.IsEditCallback(callback); ok {
			if menu, ok := r.menu(code); ok && menu.ContentType != "" {
				return r.showAdmin(ctx, chat, menu)
			}
		}
		if menu, flow, ok := r.adminAction(callback); ok {
			if !r.privileged(ev.OperatorID) {
				r.logger.Warn("flow.router.admin_denied", "operator_id", ev.OperatorID, "menu", menu.Code)
				return nil
			}
			return runner.RunCommand(ctx, r.run, r.start, StartFlowCommand{
				OperatorID:  ev.OperatorID,
				ChatID:      ev.ChatID,
				Flow:        string(flow),
				ContentType: menu.ContentType,
				Scope:       menu.Scope,
				ReturnMenu:  menu.Code,
			})
		}
	}

	msg := SubmitInputCommand{
		OperatorID: ev.OperatorID,
		ChatID:     ev.ChatID,
		Text:       ev.Text,
		Callback:   callback,
	}
	if ev.Media != nil {
		msg.MediaFileID = ev.Media.FileID
		msg.Caption = ev.Media.Caption
	}
	return runner.RunCommand(ctx, r.run, r.submit, msg)
}

// AdminCallback is the callback of an admin action button.
func AdminCallback(menu string, flow conversation.Flow) string {
	return menu + ":" + string(flow)
}

func (r *Router) handleResult(ctx context.Context, chat interfaces.ChatRef, result flows.Result) {
	switch {
	case permissions.IsDenied(result.Err):
		if err := r.render(ctx, chat, interfaces.Prompt{Text: r.copy.Denied, Back: result.ReturnMenu}); err != nil {
			r.logger.Error("flow.router.render_failed", "error", err)
		}
	case result.Outcome == flows.OutcomeCancelled:
		menu, ok := r.menu(result.ReturnMenu)
		if !ok {
			r.logger.Debug("flow.router.return_menu_missing", "menu", result.ReturnMenu)
			return
		}
		if err := r.showMenu(ctx, chat, menu); err != nil {
			r.logger.Error("flow.router.render_failed", "error", err)
		}
	}
}

func (r *Router) showMenu(ctx context.Context, chat interfaces.ChatRef, menu Menu) error {
	return r.render(ctx, chat, interfaces.Prompt{
		Text:       menu.Text,
		Options:    menu.Options,
		Back:       menu.Parent,
		Menu:       menu.Code,
		Privileged: menu.ContentType != "" && r.privileged(chat.OperatorID),
	})
}

func (r *Router) showAdmin(ctx context.Context, chat interfaces.ChatRef, menu Menu) error {
	if !r.privileged(chat.OperatorID) {
		r.logger.Warn("flow.router.admin_denied", "operator_id", chat.OperatorID, "menu", menu.Code)
		return nil
	}
	return r.render(ctx, chat, interfaces.Prompt{
		Text: r.copy.AdminPrompt,
		Options: []interfaces.Option{
			{Label: r.copy.Create, Value: AdminCallback(menu.Code, conversation.FlowCreate)},
			{Label: r.copy.Update, Value: AdminCallback(menu.Code, conversation.FlowUpdate)},
			{Label: r.copy.Delete, Value: AdminCallback(menu.Code, conversation.FlowDelete)},
		},
		Back: menu.Code,
	})
}

func (r *Router) adminAction(callback string) (Menu, conversation.Flow, bool) {
	code, action, ok := strings.Cut(callback, ":")
	if !ok {
		return Menu{}, "", false
	}
	menu, ok := r.menu(code)
	if !ok || menu.ContentType == "" {
		return Menu{}, "", false
	}
	switch flow := conversation.Flow(action); flow {
	case conversation.FlowCreate, conversation.FlowUpdate, conversation.FlowDelete:
		return menu, flow, true
	default:
		return Menu{}, "", false
	}
}

func (r *Router) menu(code string) (Menu, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	menu, ok := r.menus[strings.TrimSpace(code)]
	return menu, ok
}

func (r *Router) privileged(operatorID int64) bool {
	return r.privileges != nil && r.privileges.IsPrivileged(operatorID)
}

func (r *Router) render(ctx context.Context, chat interfaces.ChatRef, prompt interfaces.Prompt) error {
	if _, err := r.presenter.RenderPrompt(ctx, chat, prompt); err != nil {
		return fmt.Errorf("flow command: render prompt: %w", err)
	}
	return nil
}
