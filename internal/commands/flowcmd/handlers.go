package flowcmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-content-bot/internal/commands"
	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/flows"
	"github.com/goliatone/go-content-bot/internal/permissions"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

const (
	startOperation  = "flow.start"
	submitOperation = "flow.submit_input"
	cancelOperation = "flow.cancel"
)

// ErrEngineRequired is returned when handlers are built without a flow engine.
var ErrEngineRequired = errors.New("flow command: engine is nil")

var (
	_ command.Commander[StartFlowCommand]   = (*StartFlowHandler)(nil)
	_ command.Commander[SubmitInputCommand] = (*SubmitInputHandler)(nil)
	_ command.Commander[CancelFlowCommand]  = (*CancelFlowHandler)(nil)
)

// ResultFunc receives the engine result of every handled command.
type ResultFunc func(ctx context.Context, chat interfaces.ChatRef, result flows.Result)

func (fn ResultFunc) report(ctx context.Context, chat interfaces.ChatRef, result flows.Result) {
	if fn != nil {
		fn(ctx, chat, result)
	}
}

// StartFlowHandler enters flows through the shared command handler foundation.
type StartFlowHandler struct {
	inner *commands.Handler[StartFlowCommand]
}

// NewStartFlowHandler binds a handler to the engine. A permission denial is
// reported through onResult and does not fail the command.
func NewStartFlowHandler(engine *flows.Engine, logger interfaces.Logger, onResult ResultFunc, opts ...commands.HandlerOption[StartFlowCommand]) *StartFlowHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg StartFlowCommand) error {
		chat := chatRef(msg.OperatorID, msg.ChatID)
		result, err := engine.Start(ctx, flows.StartRequest{
			Key:         keyFor(chat),
			Flow:        conversation.Flow(msg.Flow),
			ContentType: strings.TrimSpace(msg.ContentType),
			Scope:       strings.TrimSpace(msg.Scope),
			ReturnMenu:  msg.ReturnMenu,
		})
		if permissions.IsDenied(err) {
			logger.Warn("flow.command.start.denied", "operator_id", msg.OperatorID, "content_type", msg.ContentType)
			onResult.report(ctx, chat, flows.Result{
				Flow:        conversation.Flow(msg.Flow),
				ContentType: msg.ContentType,
				Outcome:     flows.OutcomeIgnored,
				ReturnMenu:  msg.ReturnMenu,
				Err:         err,
			})
			return nil
		}
		if err != nil {
			return err
		}
		onResult.report(ctx, chat, result)
		return nil
	}

	handlerOpts := []commands.HandlerOption[StartFlowCommand]{
		commands.WithLogger[StartFlowCommand](logger),
		commands.WithOperation[StartFlowCommand](startOperation),
		commands.WithMessageFields(func(msg StartFlowCommand) map[string]any {
			fields := map[string]any{
				"operator_id":  msg.OperatorID,
				"chat_id":      msg.ChatID,
				"flow":         msg.Flow,
				"content_type": msg.ContentType,
			}
			if msg.Scope != "" {
				fields["scope"] = msg.Scope
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[StartFlowCommand](logger)),
	}
	return &StartFlowHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[StartFlowCommand].
func (h *StartFlowHandler) Execute(ctx context.Context, msg StartFlowCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SubmitInputHandler forwards operator input to the running flow.
type SubmitInputHandler struct {
	inner *commands.Handler[SubmitInputCommand]
}

// NewSubmitInputHandler binds a handler to the engine.
func NewSubmitInputHandler(engine *flows.Engine, logger interfaces.Logger, onResult ResultFunc, opts ...commands.HandlerOption[SubmitInputCommand]) *SubmitInputHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg SubmitInputCommand) error {
		chat := chatRef(msg.OperatorID, msg.ChatID)
		action := flows.Action{
			Key:      keyFor(chat),
			Text:     msg.Text,
			Callback: msg.Callback,
		}
		if strings.TrimSpace(msg.MediaFileID) != "" {
			action.Media = &flows.MediaInput{FileID: msg.MediaFileID, Caption: msg.Caption}
		}
		result, err := engine.Handle(ctx, action)
		if err != nil {
			return err
		}
		onResult.report(ctx, chat, result)
		return nil
	}

	handlerOpts := []commands.HandlerOption[SubmitInputCommand]{
		commands.WithLogger[SubmitInputCommand](logger),
		commands.WithOperation[SubmitInputCommand](submitOperation),
		commands.WithMessageFields(func(msg SubmitInputCommand) map[string]any {
			fields := map[string]any{
				"operator_id": msg.OperatorID,
				"chat_id":     msg.ChatID,
			}
			switch {
			case msg.MediaFileID != "":
				fields["input"] = "media"
			case msg.Callback != "":
				fields["input"] = "callback"
			default:
				fields["input"] = "text"
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SubmitInputCommand](logger)),
	}
	return &SubmitInputHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[SubmitInputCommand].
func (h *SubmitInputHandler) Execute(ctx context.Context, msg SubmitInputCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CancelFlowHandler abandons the running flow.
type CancelFlowHandler struct {
	inner *commands.Handler[CancelFlowCommand]
}

// NewCancelFlowHandler binds a handler to the engine.
func NewCancelFlowHandler(engine *flows.Engine, logger interfaces.Logger, onResult ResultFunc, opts ...commands.HandlerOption[CancelFlowCommand]) *CancelFlowHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg CancelFlowCommand) error {
		chat := chatRef(msg.OperatorID, msg.ChatID)
		result, err := engine.Cancel(ctx, keyFor(chat))
		if err != nil {
			return err
		}
		onResult.report(ctx, chat, result)
		return nil
	}

	handlerOpts := []commands.HandlerOption[CancelFlowCommand]{
		commands.WithLogger[CancelFlowCommand](logger),
		commands.WithOperation[CancelFlowCommand](cancelOperation),
		commands.WithMessageFields(func(msg CancelFlowCommand) map[string]any {
			return map[string]any{"operator_id": msg.OperatorID, "chat_id": msg.ChatID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CancelFlowCommand](logger)),
	}
	return &CancelFlowHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[CancelFlowCommand].
func (h *CancelFlowHandler) Execute(ctx context.Context, msg CancelFlowCommand) error {
	return h.inner.Execute(ctx, msg)
}

func chatRef(operatorID, chatID int64) interfaces.ChatRef {
	return interfaces.ChatRef{OperatorID: operatorID, ChatID: chatID}
}

func keyFor(chat interfaces.ChatRef) conversation.Key {
	return conversation.Key{OperatorID: chat.OperatorID, ChatID: chat.ChatID}
}
