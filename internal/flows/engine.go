package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-content-bot/internal/activity"
	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/internal/logging"
	"github.com/goliatone/go-content-bot/internal/pagination"
	"github.com/goliatone/go-content-bot/internal/permissions"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
	"github.com/goliatone/go-content-bot/records"
)

// CancelCallback aborts the running flow from any state.
const CancelCallback = "cancel"

var (
	ErrRecordStoreRequired  = errors.New("flows: record store required")
	ErrConversationRequired = errors.New("flows: conversation store required")
	ErrScopeRequired        = errors.New("flows: scope required for scoped content type")
)

// errStale marks input that matched a transition but no longer applies, such
// as a content kind the policy does not offer.
var errStale = errors.New("flows: stale input")

// StartRequest enters a flow.
type StartRequest struct {
	Key         conversation.Key
	Flow        conversation.Flow
	ContentType string
	Scope       string
	// ReturnMenu is the callback the operator lands on when the flow ends.
	ReturnMenu string
}

// Action is one inbound operator event. Exactly one of Text, Callback or
// Media is expected to be set.
type Action struct {
	Key      conversation.Key
	Text     string
	Callback string
	Media    *MediaInput
}

// Result reports what an action did. Err carries recoverable failures
// (rejected input, stale selection, failed persistence) that were already
// surfaced to the operator.
type Result struct {
	Flow        conversation.Flow
	ContentType string
	State       State
	Outcome     Outcome
	Record      *records.Record
	ReturnMenu  string
	Prompt      *interfaces.Prompt
	Err         error
}

// Option configures an Engine.
type Option func(*Engine)

// WithAuthorizer installs the capability check run when a flow starts.
func WithAuthorizer(auth interfaces.Authorizer) Option {
	return func(e *Engine) {
		if auth != nil {
			e.auth = auth
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPageSize sets the number of records listed per page.
func WithPageSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.pageSize = size
		}
	}
}

// WithObserver reports action outcomes and commit latency.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		if observer != nil {
			e.observer = observer
		}
	}
}

// WithActivity emits an event for every completed flow.
func WithActivity(emitter *activity.Emitter) Option {
	return func(e *Engine) {
		e.activity = emitter
	}
}

// WithClock overrides the engine clock.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithCopy overrides operator copy. Empty entries keep the defaults.
func WithCopy(copy Copy) Option {
	return func(e *Engine) {
		e.copy = copy.merged(DefaultCopy())
	}
}

// WithPolicies replaces the content type registry.
func WithPolicies(registry *fields.Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.policies = registry
		}
	}
}

// WithPresenter sets the transport prompts are rendered on.
func WithPresenter(presenter interfaces.Presenter) Option {
	return func(e *Engine) {
		e.presenter = presenter
	}
}

// Engine runs the create, update and delete flows. It holds no per
// conversation state; every action reloads its context from the store.
type Engine struct {
	store     interfaces.RecordStore
	convos    conversation.Store
	policies  *fields.Registry
	presenter interfaces.Presenter
	auth      interfaces.Authorizer
	locker    *conversation.Locker
	machines  map[conversation.Flow]*Machine
	copy      Copy
	pageSize  int
	observer  Observer
	activity  *activity.Emitter
	logger    interfaces.Logger
	now       func() time.Time
}

// NewEngine compiles the flow definitions and wires the engine.
func NewEngine(store interfaces.RecordStore, convos conversation.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrRecordStoreRequired
	}
	if convos == nil {
		return nil, ErrConversationRequired
	}
	engine := &Engine{
		store:    store,
		convos:   convos,
		policies: fields.DefaultRegistry(),
		auth:     permissions.AllowAll(),
		locker:   conversation.NewLocker(),
		copy:     DefaultCopy(),
		pageSize: pagination.DefaultPageSize,
		observer: noopObserver{},
		logger:   logging.NoOp(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}

	engine.machines = make(map[conversation.Flow]*Machine, 3)
	for _, def := range []Definition{
		engine.createDefinition(),
		engine.updateDefinition(),
		engine.deleteDefinition(),
	} {
		machine, err := Compile(def)
		if err != nil {
			return nil, err
		}
		engine.machines[def.Flow] = machine
	}
	return engine, nil
}

// Machine exposes the compiled definition of flow.
func (e *Engine) Machine(flow conversation.Flow) (*Machine, bool) {
	machine, ok := e.machines[flow]
	return machine, ok
}

// Start authorizes the operator, discards any flow already running for the
// conversation and renders the first prompt of the requested flow.
func (e *Engine) Start(ctx context.Context, req StartRequest) (Result, error) {
	if req.Key.IsZero() {
		return Result{}, ErrKeyRequired
	}
	machine, ok := e.machines[req.Flow]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownFlow, req.Flow)
	}
	policy, ok := e.policies.Lookup(req.ContentType)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownContentType, req.ContentType)
	}
	scope := strings.TrimSpace(req.Scope)
	if !policy.Scoped {
		scope = ""
	} else if scope == "" {
		return Result{}, fmt.Errorf("%w: %s", ErrScopeRequired, policy.ContentType)
	}

	logger := e.flowLogger(req.Key, req.Flow, policy.ContentType)
	permission := permissions.Join(policy.ContentType, permissions.Action(actionFor(req.Flow)))
	if err := e.auth.Authorize(ctx, req.Key.OperatorID, permission); err != nil {
		logger.Warn("flow.start.denied", "permission", permission, "error", err)
		return Result{}, err
	}

	unlock := e.locker.Lock(req.Key)
	defer unlock()

	if previous, err := e.convos.Load(ctx, req.Key); err == nil && previous != nil {
		logger.Debug("flow.discarded", "previous_flow", previous.Flow, "previous_state", previous.State)
	} else if err != nil && !errors.Is(err, conversation.ErrNoActiveFlow) {
		return Result{}, err
	}

	now := e.now()
	convo := &conversation.Context{
		Key:         req.Key,
		Flow:        req.Flow,
		ContentType: policy.ContentType,
		Scope:       scope,
		State:       string(machine.Initial()),
		ReturnMenu:  req.ReturnMenu,
		Page:        1,
		StartedAt:   now,
		UpdatedAt:   now,
	}
	step := &Step{Convo: convo, Policy: policy}
	prompt, err := e.renderState(ctx, machine, machine.Initial(), step)
	if err != nil {
		return Result{}, err
	}
	if err := e.convos.Save(ctx, convo); err != nil {
		return Result{}, err
	}

	result := e.resultFor(convo)
	result.Outcome = OutcomeStarted
	result.Prompt = &prompt
	logger.Info("flow.start", "state", convo.State)
	e.observer.ObserveAction(req.Flow, policy.ContentType, OutcomeStarted)
	return result, e.present(ctx, req.Key, prompt)
}

// Handle applies one operator action to the conversation's running flow.
// Actions for the same conversation are serialized in arrival order.
func (e *Engine) Handle(ctx context.Context, action Action) (Result, error) {
	if action.Key.IsZero() {
		return Result{}, ErrKeyRequired
	}

	unlock := e.locker.Lock(action.Key)
	defer unlock()

	convo, err := e.convos.Load(ctx, action.Key)
	if errors.Is(err, conversation.ErrNoActiveFlow) {
		return Result{Outcome: OutcomeIgnored}, nil
	}
	if err != nil {
		return Result{}, err
	}

	result := e.resultFor(convo)
	logger := e.flowLogger(convo.Key, convo.Flow, convo.ContentType)

	machine, ok := e.machines[convo.Flow]
	if !ok {
		_ = e.convos.Clear(ctx, convo.Key)
		return result, fmt.Errorf("%w: %s", ErrUnknownFlow, convo.Flow)
	}
	policy, ok := e.policies.Lookup(convo.ContentType)
	if !ok {
		_ = e.convos.Clear(ctx, convo.Key)
		return result, fmt.Errorf("%w: %s", ErrUnknownContentType, convo.ContentType)
	}
	state := State(convo.State)
	if !machine.Known(state) || machine.Terminal(state) {
		logger.Warn("flow.state.unknown", "state", convo.State)
		_ = e.convos.Clear(ctx, convo.Key)
		return result, fmt.Errorf("%w: %s", ErrUnknownState, convo.State)
	}

	if e.isCancel(convo, action) {
		return e.finishCancelled(ctx, convo, result)
	}

	in := e.classify(machine, state, action)
	tr, ok := machine.lookup(state, in)
	if !ok {
		logger.Debug("flow.input.ignored", "state", state, "shape", in.Shape)
		return e.ignored(result), nil
	}

	step := &Step{Convo: convo, Policy: policy, Input: in}
	if tr.Validate != nil {
		if verr := tr.Validate(in, policy); verr != nil {
			return e.reject(ctx, machine, state, step, verr, result)
		}
	}

	if tr.Apply != nil {
		if err := tr.Apply(ctx, step); err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				return e.reject(ctx, machine, state, step, verr, result)
			case errors.Is(err, errStale):
				logger.Debug("flow.input.stale", "state", state, "transition", tr.Name)
				return e.ignored(result), nil
			case IsNotFound(err):
				logger.Info("flow.selection.missing", "state", state, "error", err)
				// refresh the list the operator picked from
				fresh := &Step{Convo: convo, Policy: policy}
				prompt, rerr := e.renderState(ctx, machine, state, fresh)
				if rerr != nil {
					return result, rerr
				}
				result = e.ignored(result)
				result.Prompt = &prompt
				result.Err = err
				return result, e.present(ctx, convo.Key, prompt)
			default:
				logger.Error("flow.transition.failed", "state", state, "transition", tr.Name, "error", err)
				return result, err
			}
		}
	}

	next := tr.To
	if next == "" {
		next = step.Next
		if !tr.allows(next) {
			return result, fmt.Errorf("%w: %s -> %q", ErrInvalidRoute, tr.Name, next)
		}
	}

	if next == StateReturn {
		return e.finishCancelled(ctx, convo, result)
	}
	if machine.Terminal(next) {
		return e.commit(ctx, machine, next, step, result)
	}

	convo.State = string(next)
	convo.UpdatedAt = e.now()
	prompt, err := e.renderState(ctx, machine, next, step)
	if err != nil {
		return result, err
	}
	if err := e.convos.Save(ctx, convo); err != nil {
		return result, err
	}
	result.State = next
	result.Outcome = OutcomeAdvanced
	result.Prompt = &prompt
	logger.Debug("flow.advance", "from", state, "to", next, "transition", tr.Name)
	e.observer.ObserveAction(convo.Flow, convo.ContentType, OutcomeAdvanced)
	return result, e.present(ctx, convo.Key, prompt)
}

// Cancel discards the running flow, if any. The result carries the menu the
// operator returns to.
func (e *Engine) Cancel(ctx context.Context, key conversation.Key) (Result, error) {
	if key.IsZero() {
		return Result{}, ErrKeyRequired
	}
	unlock := e.locker.Lock(key)
	defer unlock()

	convo, err := e.convos.Load(ctx, key)
	if errors.Is(err, conversation.ErrNoActiveFlow) {
		return Result{Outcome: OutcomeIgnored}, nil
	}
	if err != nil {
		return Result{}, err
	}
	return e.finishCancelled(ctx, convo, e.resultFor(convo))
}

// Active returns a copy of the conversation's running context.
func (e *Engine) Active(ctx context.Context, key conversation.Key) (*conversation.Context, error) {
	return e.convos.Load(ctx, key)
}

func (e *Engine) commit(ctx context.Context, machine *Machine, state State, step *Step, result Result) (Result, error) {
	convo := step.Convo
	logger := e.flowLogger(convo.Key, convo.Flow, convo.ContentType)
	commit, ok := machine.commit(state)
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrUnknownState, state)
	}

	started := e.now()
	record, err := commit(ctx, step)
	e.observer.ObserveCommit(convo.Flow, convo.ContentType, e.now().Sub(started), err)

	clearErr := e.convos.Clear(ctx, convo.Key)
	result.State = state

	if err != nil {
		perr := newPersistenceError(convo.Flow, convo.ContentType, err)
		logger.Error("flow.persist.failed", "state", state, "error", err)
		prompt := interfaces.Prompt{Text: e.copy.Failed, Back: convo.ReturnMenu}
		result.Outcome = OutcomeFailed
		result.Prompt = &prompt
		result.Err = perr
		e.observer.ObserveAction(convo.Flow, convo.ContentType, OutcomeFailed)
		return result, errors.Join(clearErr, e.present(ctx, convo.Key, prompt))
	}

	step.Record = record
	prompt := interfaces.Prompt{Text: e.completionText(convo.Flow), Back: convo.ReturnMenu}
	result.Outcome = OutcomeCompleted
	result.Record = record
	result.Prompt = &prompt
	logger.Info("flow.complete", "state", state, "record_id", recordID(record))
	e.observer.ObserveAction(convo.Flow, convo.ContentType, OutcomeCompleted)
	e.emit(ctx, convo, record)
	return result, errors.Join(clearErr, e.present(ctx, convo.Key, prompt))
}

// reject re-renders the current state with corrective copy. The context is
// left untouched.
func (e *Engine) reject(ctx context.Context, machine *Machine, state State, step *Step, verr *ValidationError, result Result) (Result, error) {
	convo := step.Convo
	e.flowLogger(convo.Key, convo.Flow, convo.ContentType).Info("flow.input.rejected", "state", state, "field", verr.Field)
	prompt, err := e.renderState(ctx, machine, state, step)
	if err != nil {
		return result, err
	}
	prompt.Text = verr.Message
	result.Outcome = OutcomeRejected
	result.Prompt = &prompt
	result.Err = verr
	e.observer.ObserveAction(convo.Flow, convo.ContentType, OutcomeRejected)
	return result, e.present(ctx, convo.Key, prompt)
}

func (e *Engine) finishCancelled(ctx context.Context, convo *conversation.Context, result Result) (Result, error) {
	if err := e.convos.Clear(ctx, convo.Key); err != nil {
		return result, err
	}
	result.State = StateReturn
	result.Outcome = OutcomeCancelled
	e.flowLogger(convo.Key, convo.Flow, convo.ContentType).Info("flow.cancel", "return_menu", convo.ReturnMenu)
	e.observer.ObserveAction(convo.Flow, convo.ContentType, OutcomeCancelled)
	return result, nil
}

func (e *Engine) ignored(result Result) Result {
	result.Outcome = OutcomeIgnored
	e.observer.ObserveAction(result.Flow, result.ContentType, OutcomeIgnored)
	return result
}

func (e *Engine) isCancel(convo *conversation.Context, action Action) bool {
	callback := strings.TrimSpace(action.Callback)
	if callback == "" {
		return false
	}
	return callback == CancelCallback || (convo.ReturnMenu != "" && callback == convo.ReturnMenu)
}

// classify maps an action onto the shape vocabulary of the state machine.
// Confirmation copy only counts as yes/no where the state expects it.
func (e *Engine) classify(machine *Machine, state State, action Action) Input {
	if action.Media != nil {
		media := *action.Media
		return Input{Shape: ShapeMedia, Value: media.FileID, Media: &media}
	}
	value := strings.TrimSpace(action.Callback)
	shape := ShapeChoice
	if value == "" {
		value = action.Text
		shape = ShapeText
	}
	trimmed := strings.TrimSpace(value)
	if shape == ShapeChoice && pagination.IsToken(trimmed) {
		return Input{Shape: ShapePage, Value: trimmed}
	}
	if machine.Accepts(state, ShapeYes) && strings.EqualFold(trimmed, e.copy.Yes) {
		return Input{Shape: ShapeYes, Value: trimmed}
	}
	if machine.Accepts(state, ShapeNo) && strings.EqualFold(trimmed, e.copy.No) {
		return Input{Shape: ShapeNo, Value: trimmed}
	}
	if shape == ShapeChoice {
		return Input{Shape: shape, Value: trimmed}
	}
	return Input{Shape: shape, Value: value}
}

func (e *Engine) renderState(ctx context.Context, machine *Machine, state State, step *Step) (interfaces.Prompt, error) {
	render, ok := machine.prompt(state)
	if !ok {
		return interfaces.Prompt{}, fmt.Errorf("%w: %s", ErrUnknownState, state)
	}
	prompt, err := render(ctx, step)
	if err != nil {
		return interfaces.Prompt{}, err
	}
	if prompt.Back == "" {
		prompt.Back = step.Convo.ReturnMenu
	}
	return prompt, nil
}

func (e *Engine) present(ctx context.Context, key conversation.Key, prompt interfaces.Prompt) error {
	if e.presenter == nil {
		return nil
	}
	if _, err := e.presenter.RenderPrompt(ctx, interfaces.ChatRef{OperatorID: key.OperatorID, ChatID: key.ChatID}, prompt); err != nil {
		return fmt.Errorf("flows: render prompt: %w", err)
	}
	return nil
}

func (e *Engine) completionText(flow conversation.Flow) string {
	switch flow {
	case conversation.FlowCreate:
		return e.copy.Created
	case conversation.FlowUpdate:
		return e.copy.Updated
	case conversation.FlowDelete:
		return e.copy.Deleted
	default:
		return ""
	}
}

func (e *Engine) emit(ctx context.Context, convo *conversation.Context, record *records.Record) {
	if !e.activity.Enabled() {
		return
	}
	event := activity.Event{
		Verb:       actionFor(convo.Flow),
		OperatorID: convo.Key.OperatorID,
		ChatID:     convo.Key.ChatID,
		ObjectType: convo.ContentType,
		Scope:      convo.Scope,
		OccurredAt: e.now(),
	}
	if record != nil {
		event.ObjectID = record.ID.String()
		event.ObjectName = record.Name
	}
	if len(convo.Fields) > 0 {
		event.Metadata = map[string]any{"fields": convo.Fields.Keys()}
	}
	if err := e.activity.Emit(ctx, event); err != nil {
		e.flowLogger(convo.Key, convo.Flow, convo.ContentType).Warn("flow.activity.failed", "error", err)
	}
}

func (e *Engine) resultFor(convo *conversation.Context) Result {
	return Result{
		Flow:        convo.Flow,
		ContentType: convo.ContentType,
		State:       State(convo.State),
		ReturnMenu:  convo.ReturnMenu,
	}
}

func (e *Engine) flowLogger(key conversation.Key, flow conversation.Flow, contentType string) interfaces.Logger {
	return logging.WithFields(e.logger, map[string]any{
		"conversation": key.String(),
		"flow":         string(flow),
		"content_type": contentType,
	})
}

func recordID(record *records.Record) string {
	if record == nil {
		return ""
	}
	return record.ID.String()
}
