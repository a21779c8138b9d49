package ws

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roomboardhq/roomboard/internal/actions"
	"github.com/roomboardhq/roomboard/internal/conversation"
	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/registry"
	"github.com/roomboardhq/roomboard/internal/snapshot"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	store := snapshot.NewStore(filepath.Join(t.TempDir(), "rooms.json"))
	reg := registry.New(store, logging.NewNopLogger())
	t.Cleanup(reg.Close)

	machine := conversation.NewMachine(reg, conversation.Config{
		Catalog:  domain.DefaultCatalog(),
		Lifetime: time.Hour,
	}, logging.NewNopLogger())
	router := actions.NewRouter(reg, time.Hour)

	return NewDispatcher(machine, router, reg, logging.NewNopLogger())
}

func dispatchOne(t *testing.T, d *Dispatcher, owner string, event Event) *WSMessage {
	t.Helper()
	frames := d.Dispatch(owner, event)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	return frames[0]
}

func TestDispatchFlow(t *testing.T) {
	d := newTestDispatcher(t)
	const owner = "user-1"

	frame := dispatchOne(t, d, owner, Event{Type: FlowStart})
	if frame.Type != FlowPrompt {
		t.Fatalf("frame type = %q", frame.Type)
	}
	if got := frame.Data.(PromptPayload).Stage; got != "awaiting_host" {
		t.Fatalf("stage = %q", got)
	}

	dispatchOne(t, d, owner, Event{Type: InputText, Value: "Max"})
	dispatchOne(t, d, owner, Event{Type: InputText, Value: "abcdef"})
	dispatchOne(t, d, owner, Event{Type: InputSelect, Value: "Polus"})

	frame = dispatchOne(t, d, owner, Event{Type: InputSelect, Value: "Классика"})
	if frame.Type != RoomCreated {
		t.Fatalf("frame type = %q, want room.created", frame.Type)
	}
	room := frame.Data.(RoomCreatedPayload).Room
	if room.Code != "ABCDEF" || room.Host != "Max" {
		t.Fatalf("room = %+v", room)
	}
}

func TestDispatchRejection(t *testing.T) {
	d := newTestDispatcher(t)
	const owner = "user-1"

	dispatchOne(t, d, owner, Event{Type: FlowStart})
	dispatchOne(t, d, owner, Event{Type: InputText, Value: "Max"})

	frame := dispatchOne(t, d, owner, Event{Type: InputText, Value: "not a code"})
	if frame.Type != FlowRejected {
		t.Fatalf("frame type = %q", frame.Type)
	}
	payload := frame.Data.(PromptPayload)
	if payload.Reason != "code_malformed" || payload.Stage != "awaiting_code" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestDispatchCancelAndNoFlow(t *testing.T) {
	d := newTestDispatcher(t)

	frame := dispatchOne(t, d, "user-1", Event{Type: FlowCancel})
	if frame.Type != FlowNone {
		t.Fatalf("cancel without flow = %q", frame.Type)
	}

	dispatchOne(t, d, "user-1", Event{Type: FlowStart})
	frame = dispatchOne(t, d, "user-1", Event{Type: FlowCancel})
	if frame.Type != FlowCanceled {
		t.Fatalf("frame type = %q", frame.Type)
	}

	frame = dispatchOne(t, d, "user-1", Event{Type: InputText, Value: "Max"})
	if frame.Type != FlowNone {
		t.Fatalf("input after cancel = %q", frame.Type)
	}
}

func TestDispatchRoomsListAndActions(t *testing.T) {
	d := newTestDispatcher(t)

	// Build one room through the flow.
	for _, ev := range []Event{
		{Type: FlowStart},
		{Type: InputText, Value: "Max"},
		{Type: InputText, Value: "ABCDEF"},
		{Type: InputSelect, Value: "Polus"},
		{Type: InputSelect, Value: "Классика"},
	} {
		dispatchOne(t, d, "user-1", ev)
	}

	frame := dispatchOne(t, d, "viewer", Event{Type: RoomsList})
	if frame.Type != RoomList {
		t.Fatalf("frame type = %q", frame.Type)
	}
	board := frame.Data.(BoardPayload)
	if len(board.Rooms) != 1 || board.Rooms[0].Code != "ABCDEF" {
		t.Fatalf("board = %+v", board)
	}

	frame = dispatchOne(t, d, "viewer", Event{Type: RoomsAction, Verb: "extend", Code: "ABCDEF"})
	if frame.Type != ActionResult {
		t.Fatalf("frame type = %q", frame.Type)
	}
	result := frame.Data.(ActionResultPayload)
	if result.Outcome != "ok" || result.Room == nil {
		t.Fatalf("result = %+v", result)
	}

	frame = dispatchOne(t, d, "viewer", Event{Type: RoomsAction, Verb: "delete", Code: "NOSUCH"})
	result = frame.Data.(ActionResultPayload)
	if result.Outcome != "not_found" {
		t.Fatalf("outcome = %q", result.Outcome)
	}

	frame = dispatchOne(t, d, "viewer", Event{Type: RoomsAction, Verb: "explode", Code: "ABCDEF"})
	if frame.Type != ErrorEvent {
		t.Fatalf("unknown verb frame = %q", frame.Type)
	}
}

func TestDispatchUnknownEvent(t *testing.T) {
	d := newTestDispatcher(t)
	frame := dispatchOne(t, d, "user-1", Event{Type: "bogus"})
	if frame.Type != ErrorEvent {
		t.Fatalf("frame type = %q", frame.Type)
	}
}
