package registry

import (
	"sync"
	"time"
)

// expiryScheduler arms one pending removal timer per room code. Generations
// come from a scheduler-wide monotonic counter, so a generation is never
// reissued even after a code is canceled and armed again. A timer that fires
// after it has been canceled or superseded can therefore always be detected
// and ignored instead of removing a room whose deadline moved, or a fresh
// room that reused the code, in the meantime.
type expiryScheduler struct {
	mu      sync.Mutex
	lastGen uint64
	entries map[string]*schedulerEntry
	fire    func(code string, generation uint64)
}

type schedulerEntry struct {
	generation uint64
	timer      *time.Timer
}

func newExpiryScheduler(fire func(code string, generation uint64)) *expiryScheduler {
	return &expiryScheduler{
		entries: make(map[string]*schedulerEntry),
		fire:    fire,
	}
}

// Arm schedules removal of code after d, replacing any pending timer.
func (s *expiryScheduler) Arm(code string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[code]
	if !ok {
		entry = &schedulerEntry{}
		s.entries[code] = entry
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}

	s.lastGen++
	generation := s.lastGen
	entry.generation = generation
	entry.timer = time.AfterFunc(d, func() {
		s.fire(code, generation)
	})
}

// Cancel stops the pending timer for code, if any. Best effort: a timer
// that already fired is defused by the generation check instead, and its
// generation stays retired because the counter never goes backwards.
func (s *expiryScheduler) Cancel(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[code]
	if !ok {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(s.entries, code)
}

// Current reports whether generation is still the live timer for code.
func (s *expiryScheduler) Current(code string, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[code]
	return ok && entry.generation == generation
}
