package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-content-bot/internal/activity"
	"github.com/goliatone/go-content-bot/internal/activity/usersink"
	"github.com/goliatone/go-content-bot/internal/identity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	objectID := uuid.New().String()

	event := activity.Event{
		Verb:       "update",
		OperatorID: 501,
		ChatID:     9001,
		ObjectType: "product",
		ObjectID:   objectID,
		ObjectName: "Widget",
		Channel:    "telegram",
		Metadata: map[string]any{
			"fields": []string{"url"},
		},
		OccurredAt: now,
	}

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	actor := identity.OperatorUUID(501)
	if record.ActorID != actor || record.UserID != actor {
		t.Fatalf("expected actor %s got actor=%s user=%s", actor, record.ActorID, record.UserID)
	}
	if record.Verb != "update" || record.ObjectType != "product" || record.ObjectID != objectID {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "telegram" {
		t.Fatalf("expected channel telegram got %q", record.Channel)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["name"] != "Widget" || record.Data["chat_id"] != int64(9001) {
		t.Fatalf("unexpected metadata %v", record.Data)
	}
	fields, ok := record.Data["fields"].([]string)
	if !ok || len(fields) != 1 || fields[0] != "url" {
		t.Fatalf("expected fields metadata got %v", record.Data["fields"])
	}
	if _, leaked := event.Metadata["name"]; leaked {
		t.Fatalf("expected event metadata untouched")
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestEmitterJoinsHookErrors(t *testing.T) {
	failing := &recordingSink{err: errors.New("sink down")}
	healthy := &recordingSink{}
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	emitter := activity.NewEmitter(
		[]activity.Hook{usersink.Hook{Sink: failing}, nil, usersink.Hook{Sink: healthy}},
		activity.WithChannel("console"),
		activity.WithClock(func() time.Time { return fixed }),
	)

	err := emitter.Emit(context.Background(), activity.Event{Verb: "create", ObjectType: "faq", OperatorID: 1})
	if err == nil {
		t.Fatalf("expected joined error from failing sink")
	}
	if len(healthy.records) != 1 {
		t.Fatalf("expected healthy sink to receive the event, got %d", len(healthy.records))
	}
	got := healthy.records[0]
	if got.Channel != "console" || !got.OccurredAt.Equal(fixed) {
		t.Fatalf("expected defaults applied, got channel=%q at=%v", got.Channel, got.OccurredAt)
	}
}

func TestEmitterWithoutHooksIsDisabled(t *testing.T) {
	var emitter *activity.Emitter
	if emitter.Enabled() {
		t.Fatalf("nil emitter should be disabled")
	}
	if err := emitter.Emit(context.Background(), activity.Event{Verb: "create"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
