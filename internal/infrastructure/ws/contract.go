package ws

import (
	"time"

	"github.com/roomboardhq/roomboard/internal/domain"
)

// Event is a single inbound frame. Value carries free text or a selection
// depending on Type; Verb and Code are only set for rooms.action.
type Event struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	Verb  string `json:"verb,omitempty"`
	Code  string `json:"code,omitempty"`
}

type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// RoomView is the wire representation of a listing.
type RoomView struct {
	Code             string `json:"code"`
	Host             string `json:"host"`
	Map              string `json:"map"`
	Mode             string `json:"mode"`
	ExpiresAt        string `json:"expiresAt"`
	RemainingSeconds int64  `json:"remainingSeconds"`
}

func NewRoomView(room domain.Room, now time.Time) RoomView {
	return RoomView{
		Code:             room.Code,
		Host:             room.Host,
		Map:              room.Map,
		Mode:             room.Mode,
		ExpiresAt:        room.ExpiresAt.UTC().Format(time.RFC3339),
		RemainingSeconds: int64(room.Remaining(now).Seconds()),
	}
}

// Payload structs
type PromptPayload struct {
	Stage   string   `json:"stage"`
	Reason  string   `json:"reason,omitempty"`
	Options []string `json:"options,omitempty"`
}

type RefusedPayload struct {
	Reason string    `json:"reason"`
	Room   *RoomView `json:"room,omitempty"`
}

type RoomCreatedPayload struct {
	Room RoomView `json:"room"`
	// Follow-up verbs the renderer may offer for the fresh room.
	Actions []string `json:"actions"`
}

type BoardPayload struct {
	Rooms []RoomView `json:"rooms"`
}

type ActionResultPayload struct {
	Verb    string    `json:"verb"`
	Code    string    `json:"code"`
	Outcome string    `json:"outcome"`
	Room    *RoomView `json:"room,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewPrompt(eventType, stage, reason string, options []string) *WSMessage {
	return &WSMessage{
		Type: eventType,
		Data: PromptPayload{
			Stage:   stage,
			Reason:  reason,
			Options: options,
		},
	}
}

func NewRefused(reason string, room *RoomView) *WSMessage {
	return &WSMessage{
		Type: FlowRefused,
		Data: RefusedPayload{
			Reason: reason,
			Room:   room,
		},
	}
}

func NewRoomCreated(room RoomView, actions []string) *WSMessage {
	return &WSMessage{
		Type: RoomCreated,
		Data: RoomCreatedPayload{Room: room, Actions: actions},
	}
}

func NewBoard(eventType string, rooms []RoomView) *WSMessage {
	return &WSMessage{
		Type: eventType,
		Data: BoardPayload{Rooms: rooms},
	}
}

func NewActionResult(verb, code, outcome string, room *RoomView) *WSMessage {
	return &WSMessage{
		Type: ActionResult,
		Data: ActionResultPayload{
			Verb:    verb,
			Code:    code,
			Outcome: outcome,
			Room:    room,
		},
	}
}

func NewError(message string) *WSMessage {
	return &WSMessage{
		Type: ErrorEvent,
		Data: ErrorPayload{Message: message},
	}
}
