package flows

import "github.com/goliatone/go-content-bot/internal/conversation"

// State is a position inside one flow's state machine.
type State string

const (
	StateCreateName        State = "create.name"
	StateCreateContentKind State = "create.content_kind"
	StateCreateURL         State = "create.url"
	StateCreateText        State = "create.text"
	StateCreateMedia       State = "create.media"
	StateCreatePersist     State = "create.persist"

	StateUpdateSelect      State = "update.select"
	StateUpdateField       State = "update.field"
	StateUpdateName        State = "update.name"
	StateUpdateContentKind State = "update.content_kind"
	StateUpdateURL         State = "update.url"
	StateUpdateText        State = "update.text"
	StateUpdateMedia       State = "update.media"
	StateUpdatePersist     State = "update.persist"

	StateDeleteSelect  State = "delete.select"
	StateDeleteConfirm State = "delete.confirm"
	StateDeleteRemove  State = "delete.remove"

	// StateReturn discards the context and hands control back to the return menu.
	StateReturn State = "return"
)

// Shape classifies an inbound operator action.
type Shape string

const (
	ShapeText   Shape = "text"
	ShapeMedia  Shape = "media"
	ShapeChoice Shape = "choice"
	ShapePage   Shape = "page"
	ShapeYes    Shape = "yes"
	ShapeNo     Shape = "no"
)

// Outcome summarizes what a single action did.
type Outcome string

const (
	OutcomeStarted   Outcome = "started"
	OutcomeAdvanced  Outcome = "advanced"
	OutcomeRejected  Outcome = "rejected"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Update field axis choices.
const (
	AxisName    = "name"
	AxisContent = "content"
)

func actionFor(flow conversation.Flow) string {
	return string(flow)
}
