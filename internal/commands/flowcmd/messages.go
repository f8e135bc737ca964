package flowcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-content-bot/internal/conversation"
	botvalidation "github.com/goliatone/go-content-bot/internal/validation"
)

const (
	startFlowMessageType   = "bot.flow.start"
	submitInputMessageType = "bot.flow.submit_input"
	cancelFlowMessageType  = "bot.flow.cancel"
)

// StartFlowCommand enters a create, update or delete flow for one content
// type on behalf of an operator.
type StartFlowCommand struct {
	// OperatorID identifies the operator issuing the command.
	OperatorID int64 `json:"operator_id"`
	// ChatID identifies the chat the flow runs in.
	ChatID int64 `json:"chat_id"`
	// Flow selects the state machine: create, update or delete.
	Flow string `json:"flow"`
	// ContentType names the registered field policy.
	ContentType string `json:"content_type"`
	// Scope narrows scoped content types such as FAQ sections.
	Scope string `json:"scope,omitempty"`
	// ReturnMenu is the menu callback shown once the flow ends.
	ReturnMenu string `json:"return_menu,omitempty"`
}

// Type implements command.Message.
func (StartFlowCommand) Type() string { return startFlowMessageType }

// Validate ensures identity, flow and content type are present.
func (cmd StartFlowCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.OperatorID, validation.Required),
		validation.Field(&cmd.Flow, validation.Required, validation.In(
			string(conversation.FlowCreate),
			string(conversation.FlowUpdate),
			string(conversation.FlowDelete),
		)),
		validation.Field(&cmd.ContentType, validation.Required, validation.By(notBlank(
			"bot.flow.start.content_type_required", "content type is required",
		))),
	)
}

// SubmitInputCommand forwards one operator event into the running flow.
// Exactly one of Text, Callback or MediaFileID is expected.
type SubmitInputCommand struct {
	OperatorID  int64  `json:"operator_id"`
	ChatID      int64  `json:"chat_id"`
	Text        string `json:"text,omitempty"`
	Callback    string `json:"callback,omitempty"`
	MediaFileID string `json:"media_file_id,omitempty"`
	Caption     string `json:"caption,omitempty"`
}

// Type implements command.Message.
func (SubmitInputCommand) Type() string { return submitInputMessageType }

// Validate checks identity, caption length and that the event carries a
// single kind of payload.
func (cmd SubmitInputCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.OperatorID, validation.Required),
		validation.Field(&cmd.Callback, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) != "" && strings.TrimSpace(cmd.MediaFileID) != "" {
				return validation.NewError("bot.flow.submit_input.ambiguous", "callback and media cannot be combined")
			}
			return nil
		})),
		validation.Field(&cmd.Caption, botvalidation.Caption),
	)
}

// CancelFlowCommand abandons the running flow, if any.
type CancelFlowCommand struct {
	OperatorID int64 `json:"operator_id"`
	ChatID     int64 `json:"chat_id"`
}

// Type implements command.Message.
func (CancelFlowCommand) Type() string { return cancelFlowMessageType }

// Validate ensures the operator is identified.
func (cmd CancelFlowCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.OperatorID, validation.Required),
	)
}

func notBlank(code, message string) func(any) error {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
