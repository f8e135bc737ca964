package usersink

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-content-bot/internal/activity"
	"github.com/goliatone/go-content-bot/internal/identity"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// Hook forwards bot activity to a go-users activity sink.
type Hook struct {
	Sink interfaces.ActivitySink
}

var _ activity.Hook = Hook{}

// Notify maps the event onto an ActivityRecord. Events without a verb are
// dropped.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil || strings.TrimSpace(event.Verb) == "" {
		return nil
	}

	data := maps.Clone(event.Metadata)
	if data == nil {
		data = map[string]any{}
	}
	data["operator_id"] = event.OperatorID
	if event.ChatID != 0 {
		data["chat_id"] = event.ChatID
	}
	if event.ObjectName != "" {
		data["name"] = event.ObjectName
	}
	if event.Scope != "" {
		data["scope"] = event.Scope
	}

	actor := identity.OperatorUUID(event.OperatorID)
	record := interfaces.ActivityRecord{
		ActorID:    actor,
		UserID:     actor,
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}
	return h.Sink.Log(ctx, record)
}
