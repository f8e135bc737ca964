package usersink

import (
	"context"

	"github.com/goliatone/go-content-bot/internal/logging"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

// LogSink writes activity records to a logger. It is used when no go-users
// sink is injected.
type LogSink struct {
	Logger interfaces.Logger
}

var _ interfaces.ActivitySink = LogSink{}

// Log satisfies interfaces.ActivitySink.
func (s LogSink) Log(_ context.Context, record interfaces.ActivityRecord) error {
	logger := s.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	logging.WithFields(logger, map[string]any{
		"verb":        record.Verb,
		"object_type": record.ObjectType,
		"object_id":   record.ObjectID,
		"channel":     record.Channel,
		"actor_id":    record.ActorID.String(),
	}).Info("activity.recorded", "data", record.Data)
	return nil
}
