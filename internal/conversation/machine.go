// Package conversation drives the multi-step room creation flow: host name,
// room code, map, mode. Input is validated incrementally; rejected input
// re-prompts the same stage and never disturbs the fields gathered so far.
package conversation

import (
	"errors"
	"time"

	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/registry"
)

type Config struct {
	Catalog       domain.Catalog
	Lifetime      time.Duration
	MaxHostLength int
	CodeLength    int
}

type Machine struct {
	registry *registry.Registry
	drafts   *draftStore
	cfg      Config
	logger   logging.Logger
}

func NewMachine(reg *registry.Registry, cfg Config, logger logging.Logger) *Machine {
	if cfg.Lifetime == 0 {
		cfg.Lifetime = domain.DefaultLifetime
	}
	if cfg.MaxHostLength == 0 {
		cfg.MaxHostLength = domain.MaxHostLength
	}
	if cfg.CodeLength == 0 {
		cfg.CodeLength = domain.CodeLength
	}
	return &Machine{
		registry: reg,
		drafts:   newDraftStore(),
		cfg:      cfg,
		logger:   logger,
	}
}

// Start opens a fresh flow for owner. An owner who already holds a live
// room is refused before any prompt; an in-progress draft is overwritten,
// never stacked.
func (m *Machine) Start(owner string) Reply {
	if room, ok := m.registry.FindByOwner(owner); ok {
		return Reply{Kind: ReplyRefused, Reason: ReasonOwnerHasRoom, Room: &room}
	}

	m.drafts.Save(domain.Draft{Owner: owner, Stage: domain.StageAwaitingHost})
	m.logger.Debug(logging.Conversation, logging.FlowTransition, "flow started",
		map[logging.ExtraKey]any{"owner": owner})
	return prompt(domain.StageAwaitingHost, nil)
}

// Cancel clears the draft unconditionally from any non-idle stage.
func (m *Machine) Cancel(owner string) Reply {
	if _, ok := m.drafts.Load(owner); !ok {
		return Reply{Kind: ReplyNoFlow}
	}
	m.drafts.Delete(owner)
	return Reply{Kind: ReplyCanceled}
}

// Input feeds one text or selection value into the owner's draft. The
// transport delivers a user's events in arrival order, so each call sees
// the draft exactly as the previous one left it.
func (m *Machine) Input(owner, value string) Reply {
	draft, ok := m.drafts.Load(owner)
	if !ok {
		return Reply{Kind: ReplyNoFlow}
	}

	switch draft.Stage {
	case domain.StageAwaitingHost:
		return m.inputHost(draft, value)
	case domain.StageAwaitingCode:
		return m.inputCode(draft, value)
	case domain.StageAwaitingMap:
		return m.inputMap(draft, value)
	case domain.StageAwaitingMode:
		return m.inputMode(draft, value)
	default:
		return Reply{Kind: ReplyNoFlow}
	}
}

func (m *Machine) inputHost(draft domain.Draft, value string) Reply {
	if err := domain.ValidateHost(value, m.cfg.MaxHostLength); err != nil {
		return rejected(domain.StageAwaitingHost, ReasonHostTooLong, nil)
	}
	draft.Host = value
	draft.Stage = domain.StageAwaitingCode
	m.drafts.Save(draft)
	return prompt(domain.StageAwaitingCode, nil)
}

func (m *Machine) inputCode(draft domain.Draft, value string) Reply {
	code := domain.NormalizeCode(value)
	if err := domain.ValidateCode(code, m.cfg.CodeLength); err != nil {
		return rejected(domain.StageAwaitingCode, ReasonCodeMalformed, nil)
	}
	if _, err := m.registry.Get(code); err == nil {
		return rejected(domain.StageAwaitingCode, ReasonCodeTaken, nil)
	}
	draft.Code = code
	draft.Stage = domain.StageAwaitingMap
	m.drafts.Save(draft)
	return prompt(domain.StageAwaitingMap, m.cfg.Catalog.Maps)
}

func (m *Machine) inputMap(draft domain.Draft, value string) Reply {
	if value == SelectionCancel {
		return m.Cancel(draft.Owner)
	}
	if !m.cfg.Catalog.ValidMap(value) {
		return rejected(domain.StageAwaitingMap, ReasonUnknownMap, m.cfg.Catalog.Maps)
	}
	draft.Map = value
	draft.Stage = domain.StageAwaitingMode
	m.drafts.Save(draft)
	return prompt(domain.StageAwaitingMode, m.cfg.Catalog.Modes)
}

func (m *Machine) inputMode(draft domain.Draft, value string) Reply {
	switch value {
	case SelectionCancel:
		return m.Cancel(draft.Owner)
	case SelectionChangeMap:
		// Back transition; the previously chosen map stays in the draft
		// until overwritten.
		draft.Stage = domain.StageAwaitingMap
		m.drafts.Save(draft)
		return prompt(domain.StageAwaitingMap, m.cfg.Catalog.Maps)
	}

	if !m.cfg.Catalog.ValidMode(value) {
		return rejected(domain.StageAwaitingMode, ReasonUnknownMode, m.cfg.Catalog.Modes)
	}
	draft.Mode = value
	return m.commit(draft)
}

// commit turns the completed draft into a live room. The registry re-checks
// code uniqueness and the per-owner constraint under its own lock; losing
// either race sends the user back to the appropriate stage instead of
// dropping the flow.
func (m *Machine) commit(draft domain.Draft) Reply {
	room, err := m.registry.Create(registry.CreateParams{
		Code:     draft.Code,
		Host:     draft.Host,
		Map:      draft.Map,
		Mode:     draft.Mode,
		Owner:    draft.Owner,
		Lifetime: m.cfg.Lifetime,
	})

	switch {
	case err == nil:
		m.drafts.Delete(draft.Owner)
		m.logger.Info(logging.Conversation, logging.FlowTransition, "flow committed",
			map[logging.ExtraKey]any{"owner": draft.Owner, "code": room.Code})
		return Reply{Kind: ReplyCommitted, Room: &room}

	case errors.Is(err, domain.ErrDuplicateCode), errors.Is(err, domain.ErrInvalidCode):
		draft.Stage = domain.StageAwaitingCode
		m.drafts.Save(draft)
		return rejected(domain.StageAwaitingCode, ReasonCodeTaken, nil)

	case errors.Is(err, domain.ErrOwnerHasActiveRoom):
		m.drafts.Delete(draft.Owner)
		return Reply{Kind: ReplyRefused, Reason: ReasonOwnerHasRoom}

	default:
		m.logger.Error(logging.Conversation, logging.FlowTransition, "commit failed",
			map[logging.ExtraKey]any{"owner": draft.Owner, "error": err.Error()})
		draft.Stage = domain.StageAwaitingMode
		m.drafts.Save(draft)
		return rejected(domain.StageAwaitingMode, ReasonUnknownMode, m.cfg.Catalog.Modes)
	}
}

// Stage reports the owner's current draft stage, StageIdle when none.
func (m *Machine) Stage(owner string) domain.Stage {
	draft, ok := m.drafts.Load(owner)
	if !ok {
		return domain.StageIdle
	}
	return draft.Stage
}
