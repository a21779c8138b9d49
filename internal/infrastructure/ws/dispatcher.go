package ws

import (
	"errors"
	"time"

	"github.com/roomboardhq/roomboard/internal/actions"
	"github.com/roomboardhq/roomboard/internal/conversation"
	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/registry"
)

var roomActions = []string{
	string(actions.VerbDelete),
	string(actions.VerbExtend),
	string(actions.VerbDuplicate),
}

// Dispatcher translates inbound gateway events into conversation, action,
// and listing operations, and the structured answers back into frames.
type Dispatcher struct {
	machine  *conversation.Machine
	router   *actions.Router
	registry *registry.Registry
	logger   logging.Logger
}

func NewDispatcher(machine *conversation.Machine, router *actions.Router, reg *registry.Registry, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		machine:  machine,
		router:   router,
		registry: reg,
		logger:   logger,
	}
}

func (d *Dispatcher) Dispatch(owner string, event Event) []*WSMessage {
	switch event.Type {
	case FlowStart:
		return []*WSMessage{d.replyFrame(d.machine.Start(owner))}
	case FlowCancel:
		return []*WSMessage{d.replyFrame(d.machine.Cancel(owner))}
	case InputText, InputSelect:
		return []*WSMessage{d.replyFrame(d.machine.Input(owner, event.Value))}
	case RoomsList:
		return []*WSMessage{NewBoard(RoomList, boardViews(d.registry.List()))}
	case RoomsAction:
		return []*WSMessage{d.action(owner, event)}
	default:
		return []*WSMessage{NewError("unknown event type")}
	}
}

func (d *Dispatcher) action(owner string, event Event) *WSMessage {
	result, err := d.router.Do(actions.Verb(event.Verb), event.Code)
	if err != nil {
		if errors.Is(err, actions.ErrUnknownVerb) {
			return NewError("unknown action verb")
		}
		d.logger.Error(logging.Gateway, logging.Session, "action failed", map[logging.ExtraKey]any{
			"owner": owner,
			"verb":  event.Verb,
			"code":  event.Code,
			"error": err.Error(),
		})
		return NewError("action failed")
	}

	var view *RoomView
	if result.Room != nil {
		v := NewRoomView(*result.Room, time.Now())
		view = &v
	}
	return NewActionResult(string(result.Verb), result.Code, string(result.Outcome), view)
}

func (d *Dispatcher) replyFrame(reply conversation.Reply) *WSMessage {
	switch reply.Kind {
	case conversation.ReplyPrompt:
		return NewPrompt(FlowPrompt, reply.Stage.String(), "", reply.Options)
	case conversation.ReplyRejected:
		return NewPrompt(FlowRejected, reply.Stage.String(), string(reply.Reason), reply.Options)
	case conversation.ReplyRefused:
		var view *RoomView
		if reply.Room != nil {
			v := NewRoomView(*reply.Room, time.Now())
			view = &v
		}
		return NewRefused(string(reply.Reason), view)
	case conversation.ReplyCommitted:
		return NewRoomCreated(NewRoomView(*reply.Room, time.Now()), roomActions)
	case conversation.ReplyCanceled:
		return &WSMessage{Type: FlowCanceled}
	case conversation.ReplyNoFlow:
		return &WSMessage{Type: FlowNone}
	default:
		return NewError("unhandled reply")
	}
}
