package actions

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/registry"
	"github.com/roomboardhq/roomboard/internal/snapshot"
)

func newTestRouter(t *testing.T) (*Router, *registry.Registry) {
	t.Helper()
	store := snapshot.NewStore(filepath.Join(t.TempDir(), "rooms.json"))
	reg := registry.New(store, logging.NewNopLogger())
	t.Cleanup(reg.Close)
	return NewRouter(reg, time.Hour), reg
}

func seedRoom(t *testing.T, reg *registry.Registry, code, owner string) {
	t.Helper()
	if _, err := reg.Create(registry.CreateParams{
		Code: code, Host: "Max", Map: "Polus", Mode: "Классика",
		Owner: owner, Lifetime: 4 * time.Hour,
	}); err != nil {
		t.Fatal(err)
	}
}

func TestDelete(t *testing.T) {
	router, reg := newTestRouter(t)
	seedRoom(t, reg, "ABCDEF", "owner-1")

	result, err := router.Do(VerbDelete, "abcdef")
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result.Outcome != OutcomeOK {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if result.Room == nil || result.Room.Code != "ABCDEF" {
		t.Fatalf("result room = %+v", result.Room)
	}
	if len(reg.List()) != 0 {
		t.Fatal("room should be gone")
	}
}

func TestExtend(t *testing.T) {
	router, reg := newTestRouter(t)
	seedRoom(t, reg, "ABCDEF", "owner-1")

	before, _ := reg.Get("ABCDEF")
	result, err := router.Do(VerbExtend, "ABCDEF")
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result.Outcome != OutcomeOK {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if got := result.Room.ExpiresAt.Sub(before.ExpiresAt); got != time.Hour {
		t.Fatalf("deadline moved by %v, want 1h", got)
	}
}

func TestDuplicate(t *testing.T) {
	router, reg := newTestRouter(t)
	seedRoom(t, reg, "ABCDEF", "owner-1")

	result, err := router.Do(VerbDuplicate, "ABCDEF")
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result.Outcome != OutcomeOK {
		t.Fatalf("outcome = %q", result.Outcome)
	}
	if result.Room.Host != "Max" || result.Room.Map != "Polus" {
		t.Fatalf("duplicate payload = %+v", result.Room)
	}

	// Duplicate is read-only; the room must be untouched.
	if len(reg.List()) != 1 {
		t.Fatal("duplicate must not change the registry")
	}
}

func TestMissingRoomIsAnOutcome(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, verb := range []Verb{VerbDelete, VerbExtend, VerbDuplicate} {
		result, err := router.Do(verb, "nosuch")
		if err != nil {
			t.Fatalf("Do(%s): %v", verb, err)
		}
		if result.Outcome != OutcomeNotFound {
			t.Fatalf("Do(%s) outcome = %q, want not_found", verb, result.Outcome)
		}
		if result.Code != "NOSUCH" {
			t.Fatalf("Do(%s) code = %q, want normalized NOSUCH", verb, result.Code)
		}
		if result.Room != nil {
			t.Fatalf("Do(%s) room = %+v, want nil", verb, result.Room)
		}
	}
}

func TestUnknownVerb(t *testing.T) {
	router, _ := newTestRouter(t)

	_, err := router.Do("explode", "ABCDEF")
	if !errors.Is(err, ErrUnknownVerb) {
		t.Fatalf("got %v, want ErrUnknownVerb", err)
	}
}
