// Package registry owns every live room. All mutations run inside a single
// critical section shared with the expiry scheduler, so a reader can never
// observe a room without its timer armed or a timer without its room.
package registry

import (
	"sync"
	"time"

	"github.com/roomboardhq/roomboard/internal/domain"
	"github.com/roomboardhq/roomboard/internal/infrastructure/logging"
	"github.com/roomboardhq/roomboard/internal/snapshot"
)

// RemovalReason distinguishes an explicit delete from timer expiry in
// outbound notifications.
type RemovalReason string

const (
	RemovedByOwner  RemovalReason = "deleted"
	RemovedByExpiry RemovalReason = "expired"
)

// Observer is notified after a mutation has been committed and persisted.
// Callbacks run outside the registry lock and must not call back into it.
type Observer interface {
	RoomCreated(room domain.Room)
	RoomRemoved(room domain.Room, reason RemovalReason)
	RoomExtended(room domain.Room)
}

// CreateParams carries the accumulated draft fields into Create.
type CreateParams struct {
	Code     string
	Host     string
	Map      string
	Mode     string
	Owner    string
	Lifetime time.Duration
}

type Registry struct {
	mu        sync.Mutex
	rooms     map[string]*domain.Room
	order     []string // insertion order, for stable listing
	owners    map[string]string
	scheduler *expiryScheduler
	store     *snapshot.Store
	logger    logging.Logger
	observers []Observer
	now       func() time.Time
	codeLen   int
}

type Option func(*Registry)

// WithObserver appends an observer for committed mutations.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observers = append(r.observers, o)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithCodeLength overrides the required room-code length.
func WithCodeLength(n int) Option {
	return func(r *Registry) {
		r.codeLen = n
	}
}

func New(store *snapshot.Store, logger logging.Logger, opts ...Option) *Registry {
	r := &Registry{
		rooms:   make(map[string]*domain.Room),
		owners:  make(map[string]string),
		store:   store,
		logger:  logger,
		now:     time.Now,
		codeLen: domain.CodeLength,
	}
	r.scheduler = newExpiryScheduler(r.expire)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Restore loads the snapshot and arms a fresh timer for every persisted
// room using its stored remaining duration. Downtime therefore extends
// every room by the downtime; the absolute deadline is not persisted.
func (r *Registry) Restore() (int, error) {
	records, err := r.store.Load()
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for code, rec := range records {
		lifetime := time.Duration(rec.DurationSeconds) * time.Second
		room := &domain.Room{
			Code:      code,
			Host:      rec.Host,
			Map:       rec.Map,
			Mode:      rec.Mode,
			Owner:     rec.Owner,
			CreatedAt: now,
			ExpiresAt: now.Add(lifetime),
		}
		r.rooms[code] = room
		r.order = append(r.order, code)
		if rec.Owner != "" {
			r.owners[rec.Owner] = code
		}
		r.scheduler.Arm(code, lifetime)
	}
	return len(records), nil
}

// Create validates, inserts, arms the expiry timer, and persists as one
// atomic step with respect to any other registry caller.
func (r *Registry) Create(p CreateParams) (domain.Room, error) {
	code := domain.NormalizeCode(p.Code)
	if err := domain.ValidateCode(code, r.codeLen); err != nil {
		return domain.Room{}, err
	}

	r.mu.Lock()
	if _, exists := r.rooms[code]; exists {
		r.mu.Unlock()
		return domain.Room{}, domain.ErrDuplicateCode
	}
	if _, exists := r.owners[p.Owner]; exists {
		r.mu.Unlock()
		return domain.Room{}, domain.ErrOwnerHasActiveRoom
	}

	now := r.now()
	room := &domain.Room{
		Code:      code,
		Host:      p.Host,
		Map:       p.Map,
		Mode:      p.Mode,
		Owner:     p.Owner,
		CreatedAt: now,
		ExpiresAt: now.Add(p.Lifetime),
	}
	r.rooms[code] = room
	r.order = append(r.order, code)
	r.owners[p.Owner] = code
	r.scheduler.Arm(code, p.Lifetime)
	r.persistLocked()
	created := *room
	r.mu.Unlock()

	r.logger.Info(logging.Registry, logging.RoomLifecycle, "room created",
		map[logging.ExtraKey]any{"code": created.Code, "owner": created.Owner})
	for _, o := range r.observers {
		o.RoomCreated(created)
	}
	return created, nil
}

// Remove cancels the pending timer, deletes the record, and persists.
func (r *Registry) Remove(code string) (domain.Room, error) {
	code = domain.NormalizeCode(code)

	r.mu.Lock()
	room, exists := r.rooms[code]
	if !exists {
		r.mu.Unlock()
		return domain.Room{}, domain.ErrRoomNotFound
	}
	r.scheduler.Cancel(code)
	r.deleteLocked(code)
	r.persistLocked()
	removed := *room
	r.mu.Unlock()

	r.logger.Info(logging.Registry, logging.RoomLifecycle, "room deleted",
		map[logging.ExtraKey]any{"code": removed.Code})
	for _, o := range r.observers {
		o.RoomRemoved(removed, RemovedByOwner)
	}
	return removed, nil
}

// Extend pushes the deadline out by extra and re-arms a single fresh timer
// for the new total remaining duration.
func (r *Registry) Extend(code string, extra time.Duration) (domain.Room, error) {
	code = domain.NormalizeCode(code)

	r.mu.Lock()
	room, exists := r.rooms[code]
	if !exists {
		r.mu.Unlock()
		return domain.Room{}, domain.ErrRoomNotFound
	}
	room.ExpiresAt = room.ExpiresAt.Add(extra)
	r.scheduler.Arm(code, room.Remaining(r.now()))
	r.persistLocked()
	extended := *room
	r.mu.Unlock()

	r.logger.Info(logging.Registry, logging.RoomLifecycle, "room extended",
		map[logging.ExtraKey]any{"code": extended.Code, "expires_at": extended.ExpiresAt})
	for _, o := range r.observers {
		o.RoomExtended(extended)
	}
	return extended, nil
}

func (r *Registry) Get(code string) (domain.Room, error) {
	code = domain.NormalizeCode(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[code]
	if !exists {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return *room, nil
}

// List returns every live room in insertion order.
func (r *Registry) List() []domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Room, 0, len(r.order))
	for _, code := range r.order {
		if room, ok := r.rooms[code]; ok {
			out = append(out, *room)
		}
	}
	return out
}

func (r *Registry) FindByOwner(owner string) (domain.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.owners[owner]
	if !ok {
		return domain.Room{}, false
	}
	room, ok := r.rooms[code]
	if !ok {
		return domain.Room{}, false
	}
	return *room, true
}

// Close cancels every pending timer. Rooms stay persisted in the snapshot.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, code := range r.order {
		r.scheduler.Cancel(code)
	}
}

// expire runs on the timer goroutine. It takes the same critical section as
// every other mutation; a stale generation means the timer was canceled or
// superseded while this call was in flight, so it must do nothing.
func (r *Registry) expire(code string, generation uint64) {
	r.mu.Lock()
	if !r.scheduler.Current(code, generation) {
		r.mu.Unlock()
		return
	}
	room, exists := r.rooms[code]
	if !exists {
		r.mu.Unlock()
		return
	}
	r.scheduler.Cancel(code)
	r.deleteLocked(code)
	r.persistLocked()
	removed := *room
	r.mu.Unlock()

	r.logger.Info(logging.Registry, logging.RoomLifecycle, "room expired",
		map[logging.ExtraKey]any{"code": removed.Code})
	for _, o := range r.observers {
		o.RoomRemoved(removed, RemovedByExpiry)
	}
}

func (r *Registry) deleteLocked(code string) {
	room := r.rooms[code]
	delete(r.rooms, code)
	if room != nil && r.owners[room.Owner] == code {
		delete(r.owners, room.Owner)
	}
	for i, c := range r.order {
		if c == code {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// persistLocked rewrites the snapshot with the current room set. A failed
// write is logged but does not roll back the in-memory mutation.
func (r *Registry) persistLocked() {
	now := r.now()
	records := make(map[string]snapshot.Record, len(r.rooms))
	for code, room := range r.rooms {
		records[code] = snapshot.Record{
			Host:            room.Host,
			Code:            code,
			Map:             room.Map,
			Mode:            room.Mode,
			Owner:           room.Owner,
			DurationSeconds: int64(room.Remaining(now) / time.Second),
		}
	}
	if err := r.store.Save(records); err != nil {
		r.logger.Error(logging.Registry, logging.Snapshotting, "snapshot write failed",
			map[logging.ExtraKey]any{"error": err.Error()})
	}
}
