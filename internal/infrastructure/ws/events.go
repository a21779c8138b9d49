package ws

// Inbound event types sent by clients.
const (
	FlowStart   = "flow.start"
	FlowCancel  = "flow.cancel"
	InputText   = "input.text"
	InputSelect = "input.select"
	RoomsList   = "rooms.list"
	RoomsAction = "rooms.action"
)

// Outbound event types pushed to clients.
const (
	FlowPrompt   = "flow.prompt"
	FlowRejected = "flow.rejected"
	FlowRefused  = "flow.refused"
	FlowCanceled = "flow.canceled"
	FlowNone     = "flow.none"

	RoomCreated  = "room.created"
	RoomList     = "room.list"
	ActionResult = "action.result"
	BoardUpdated = "board.updated"

	ErrorEvent = "error"
)
