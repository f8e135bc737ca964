package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the audit entry emitted after a flow commits a record
// change. It is the go-users type so hosts can forward entries unchanged.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink receives committed create, update and delete actions.
// Sink failures are logged by the caller and never undo the change.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
