// Package actions dispatches the post-creation affordances (delete, extend,
// duplicate) onto registry operations. It performs no conversation-state
// transitions of its own.
package actions

import (
	"errors"
	"time"

	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/registry"
)

type Verb string

const (
	VerbDelete    Verb = "delete"
	VerbExtend    Verb = "extend"
	VerbDuplicate Verb = "duplicate"
)

var ErrUnknownVerb = errors.New("unknown action verb")

type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeNotFound Outcome = "not_found"
)

// Result is the structured outcome handed to the renderer. Room is set on
// success: for delete it is the removed room, for extend the room with its
// new deadline, for duplicate a read-only copy of the listing's fields.
type Result struct {
	Verb    Verb
	Code    string
	Outcome Outcome
	Room    *domain.Room
}

type Router struct {
	registry *registry.Registry
	extendBy time.Duration
}

func NewRouter(reg *registry.Registry, extendBy time.Duration) *Router {
	if extendBy == 0 {
		extendBy = domain.ExtensionStep
	}
	return &Router{registry: reg, extendBy: extendBy}
}

// Do executes one (verb, code) action. A missing room is an informational
// outcome, never an error that escapes to the caller.
func (r *Router) Do(verb Verb, code string) (Result, error) {
	switch verb {
	case VerbDelete:
		room, err := r.registry.Remove(code)
		return r.result(verb, code, room, err)
	case VerbExtend:
		room, err := r.registry.Extend(code, r.extendBy)
		return r.result(verb, code, room, err)
	case VerbDuplicate:
		room, err := r.registry.Get(code)
		return r.result(verb, code, room, err)
	default:
		return Result{}, ErrUnknownVerb
	}
}

func (r *Router) result(verb Verb, code string, room domain.Room, err error) (Result, error) {
	switch {
	case err == nil:
		return Result{Verb: verb, Code: room.Code, Outcome: OutcomeOK, Room: &room}, nil
	case errors.Is(err, domain.ErrRoomNotFound):
		return Result{Verb: verb, Code: domain.NormalizeCode(code), Outcome: OutcomeNotFound}, nil
	default:
		return Result{}, err
	}
}
