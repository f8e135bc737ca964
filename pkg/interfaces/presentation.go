package interfaces

import "context"

// Option is a single selectable control. Value is the opaque callback string
// delivered back to the engine; URL options open a link instead.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Media references an uploaded image plus its caption.
type Media struct {
	FileID  string `json:"file_id"`
	Caption string `json:"caption,omitempty"`
}

// Prompt is what the engine asks the transport to render next.
type Prompt struct {
	Text       string   `json:"text"`
	Options    []Option `json:"options,omitempty"`
	Navigation []Option `json:"navigation,omitempty"`
	// Back is the callback of the trailing return control. Empty omits it.
	Back       string `json:"back,omitempty"`
	Menu       string `json:"menu,omitempty"`
	Privileged bool   `json:"privileged,omitempty"`
	Media      *Media `json:"media,omitempty"`
}

// ChatRef identifies the conversation a prompt is delivered to.
type ChatRef struct {
	OperatorID int64 `json:"operator_id"`
	ChatID     int64 `json:"chat_id"`
}

// MessageRef is the opaque handle returned by a presenter.
type MessageRef struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

// Presenter renders prompts over the chat transport.
type Presenter interface {
	RenderPrompt(ctx context.Context, chat ChatRef, prompt Prompt) (MessageRef, error)
}
