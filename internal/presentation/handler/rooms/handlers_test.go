package rooms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roomboardhq/roomboard/internal/actions"
	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/registry"
	"github.com/roomboardhq/roomboard/internal/snapshot"
)

func newTestServer(t *testing.T) (http.Handler, *registry.Registry) {
	t.Helper()
	store := snapshot.NewStore(filepath.Join(t.TempDir(), "rooms.json"))
	reg := registry.New(store, logging.NewNopLogger())
	t.Cleanup(reg.Close)

	handler := NewHandler(reg, actions.NewRouter(reg, time.Hour), domain.CodeLength)

	r := chi.NewRouter()
	r.Get("/api/rooms", handler.ListRoomsHandler)
	r.Post("/api/rooms/{code}/actions/{verb}", handler.RoomActionHandler)
	return r, reg
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

func TestListRooms(t *testing.T) {
	srv, reg := newTestServer(t)
	seedRoom(t, reg, "AAAAAA", "owner-1")
	seedRoom(t, reg, "BBBBBB", "owner-2")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rooms", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp listRoomsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 2 || len(resp.Rooms) != 2 {
		t.Fatalf("count = %d, rooms = %d", resp.Count, len(resp.Rooms))
	}
	if resp.Rooms[0].Code != "AAAAAA" || resp.Rooms[1].Code != "BBBBBB" {
		t.Fatalf("order = %s, %s", resp.Rooms[0].Code, resp.Rooms[1].Code)
	}
	if resp.Rooms[0].RemainingSeconds <= 0 {
		t.Fatal("remaining seconds should be positive")
	}
}

func TestRoomAction(t *testing.T) {
	t.Run("delete", func(t *testing.T) {
		srv, reg := newTestServer(t)
		seedRoom(t, reg, "ABCDEF", "owner-1")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/rooms/abcdef/actions/delete", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp actionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Outcome != "ok" || resp.Room == nil || resp.Room.Code != "ABCDEF" {
			t.Fatalf("resp = %+v", resp)
		}
		if len(reg.List()) != 0 {
			t.Fatal("room should be gone")
		}
	})

	t.Run("extend", func(t *testing.T) {
		srv, reg := newTestServer(t)
		seedRoom(t, reg, "ABCDEF", "owner-1")
		before, _ := reg.Get("ABCDEF")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/rooms/ABCDEF/actions/extend", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		after, _ := reg.Get("ABCDEF")
		if got := after.ExpiresAt.Sub(before.ExpiresAt); got != time.Hour {
			t.Fatalf("deadline moved by %v", got)
		}
	})

	t.Run("missing room returns 404 with outcome", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/rooms/ZZZZZZ/actions/delete", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp actionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Outcome != "not_found" {
			t.Fatalf("outcome = %q", resp.Outcome)
		}
	})

	t.Run("unknown verb is rejected", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/rooms/ABCDEF/actions/explode", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("malformed code is rejected", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/rooms/AB12/actions/delete", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
