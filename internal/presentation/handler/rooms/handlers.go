package rooms

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roomboardhq/roomboard/internal/actions"
	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/infrastructure/json"
	"github.com/roomboardhq/roomboard/internal/infrastructure/validate"
	"github.com/roomboardhq/roomboard/internal/registry"
)

type Handler struct {
	registry     *registry.Registry
	router       *actions.Router
	validateVerb validate.Validator
	validateCode validate.Validator
}

func NewHandler(reg *registry.Registry, router *actions.Router, codeLength int) *Handler {
	return &Handler{
		registry: reg,
		router:   router,
		validateVerb: validate.Field("verb", validate.Required(),
			validate.OneOf(string(actions.VerbDelete), string(actions.VerbExtend), string(actions.VerbDuplicate))),
		validateCode: validate.Field("code", validate.Required(),
			validate.Length(codeLength), validate.Letters()),
	}
}

// ListRoomsHandler returns every live listing in creation order.
func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	rooms := h.registry.List()

	mapped := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		mapped = append(mapped, toRoomResponse(room, now))
	}

	json.Write(w, http.StatusOK, listRoomsResponse{
		Rooms: mapped,
		Count: len(mapped),
	})
}

// RoomActionHandler executes one of the listing verbs against a room code.
func (h *Handler) RoomActionHandler(w http.ResponseWriter, r *http.Request) {
	verb := chi.URLParam(r, "verb")
	code := domain.NormalizeCode(chi.URLParam(r, "code"))

	if err := h.validateVerb(verb); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := h.validateCode(code); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	result, err := h.router.Do(actions.Verb(verb), code)
	if err != nil {
		if errors.Is(err, actions.ErrUnknownVerb) {
			json.WriteValidationError(w, err)
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	resp := actionResponse{
		Verb:    string(result.Verb),
		Code:    result.Code,
		Outcome: string(result.Outcome),
	}
	if result.Room != nil {
		room := toRoomResponse(*result.Room, time.Now())
		resp.Room = &room
	}

	if result.Outcome == actions.OutcomeNotFound {
		json.Write(w, http.StatusNotFound, resp)
		return
	}
	json.Write(w, http.StatusOK, resp)
}

func toRoomResponse(room domain.Room, now time.Time) roomResponse {
	return roomResponse{
		Code:             room.Code,
		Host:             room.Host,
		Map:              room.Map,
		Mode:             room.Mode,
		CreatedAt:        room.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt:        room.ExpiresAt.UTC().Format(time.RFC3339),
		RemainingSeconds: int64(room.Remaining(now).Seconds()),
	}
}
