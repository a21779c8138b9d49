package conversation

import "github.com/roomboardhq/roomboard/internal/domain"

// ReplyKind classifies the structured payload handed to the outbound
// renderer. Localized wording, buttons, and formatting stay on the
// renderer's side of the boundary.
type ReplyKind string

const (
	// ReplyPrompt asks for the next field of the draft.
	ReplyPrompt ReplyKind = "prompt"
	// ReplyRejected re-prompts the same stage after invalid input.
	ReplyRejected ReplyKind = "rejected"
	// ReplyRefused means the flow could not start or continue at all.
	ReplyRefused ReplyKind = "refused"
	// ReplyCommitted carries the newly created room.
	ReplyCommitted ReplyKind = "room_created"
	ReplyCanceled  ReplyKind = "canceled"
	ReplyNoFlow    ReplyKind = "no_active_flow"
)

// Reason is a machine-readable rejection code for the renderer.
type Reason string

const (
	ReasonHostTooLong   Reason = "host_too_long"
	ReasonCodeMalformed Reason = "code_malformed"
	ReasonCodeTaken     Reason = "code_taken"
	ReasonUnknownMap    Reason = "unknown_map"
	ReasonUnknownMode   Reason = "unknown_mode"
	ReasonOwnerHasRoom  Reason = "owner_has_active_room"
)

// Selection sentinels accepted at the map/mode stages.
const (
	SelectionCancel    = "cancel"
	SelectionChangeMap = "change_map"
)

// Reply is the machine's answer to one inbound event.
type Reply struct {
	Kind    ReplyKind
	Stage   domain.Stage
	Reason  Reason
	Options []string // selection choices for the prompted stage
	Room    *domain.Room
}

func prompt(stage domain.Stage, options []string) Reply {
	return Reply{Kind: ReplyPrompt, Stage: stage, Options: options}
}

func rejected(stage domain.Stage, reason Reason, options []string) Reply {
	return Reply{Kind: ReplyRejected, Stage: stage, Reason: reason, Options: options}
}
