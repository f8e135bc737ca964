package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-content-bot/records"
)

var (
	ErrNoActiveFlow = errors.New("conversation: no active flow")
	ErrKeyRequired  = errors.New("conversation: key required")
)

// Flow names a state machine family.
type Flow string

const (
	FlowCreate Flow = "create"
	FlowUpdate Flow = "update"
	FlowDelete Flow = "delete"
)

// Key identifies one operator talking in one chat.
type Key struct {
	OperatorID int64 `json:"operator_id"`
	ChatID     int64 `json:"chat_id"`
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.OperatorID, k.ChatID)
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.OperatorID == 0 && k.ChatID == 0
}

// TargetRef points at the record being edited or deleted.
type TargetRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Context is the scratch state of the flow a conversation is running.
type Context struct {
	Key         Key            `json:"key"`
	Flow        Flow           `json:"flow"`
	ContentType string         `json:"content_type"`
	Scope       string         `json:"scope,omitempty"`
	State       string         `json:"state"`
	Fields      records.Fields `json:"fields,omitempty"`
	Target      *TargetRef     `json:"target,omitempty"`
	ReturnMenu  string         `json:"return_menu,omitempty"`
	Page        int            `json:"page,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Clone returns a deep copy.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	cloned := *c
	cloned.Fields = c.Fields.Clone()
	if c.Target != nil {
		target := *c.Target
		cloned.Target = &target
	}
	return &cloned
}

// Capture records a field value.
func (c *Context) Capture(field, value string) {
	if c.Fields == nil {
		c.Fields = records.Fields{}
	}
	c.Fields[field] = value
}

// Store owns conversation contexts. Implementations must return copies so
// callers never share mutable state across actions.
type Store interface {
	Load(ctx context.Context, key Key) (*Context, error)
	Save(ctx context.Context, convo *Context) error
	Clear(ctx context.Context, key Key) error
}
