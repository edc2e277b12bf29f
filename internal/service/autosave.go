package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/freefly-ai/inkflow/internal/domain"
)

// DebounceWindow is how long a content edit may sit unpersisted before
// the autosaver flushes it. Structural mutations never wait; only
// free-text edits take this path.
const DebounceWindow = 2 * time.Second

// Autosaver coalesces frequent free-text edits into debounced writes.
// One pending timer per work: a new edit cancels and restarts the timer
// rather than queuing a second save. Save errors are logged, never
// surfaced: an autosave failure must not interrupt editing, and the
// next edit retries anyway.
type Autosaver struct {
	works WorkRepository
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSave
}

type pendingSave struct {
	timer *time.Timer
	save  func()
}

// NewAutosaver creates an Autosaver with the standard debounce window.
func NewAutosaver(works WorkRepository) *Autosaver {
	return NewAutosaverWithDelay(works, DebounceWindow)
}

// NewAutosaverWithDelay creates an Autosaver with an explicit window.
func NewAutosaverWithDelay(works WorkRepository, delay time.Duration) *Autosaver {
	return &Autosaver{
		works:   works,
		delay:   delay,
		pending: make(map[string]*pendingSave),
	}
}

// Schedule registers a debounced save of the work. The work is mutated
// only from the caller's single editing flow, so the pointer captured
// here reflects the latest content when the timer fires.
func (a *Autosaver) Schedule(w *domain.Work) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if p, ok := a.pending[w.ID]; ok {
		p.timer.Stop()
	}

	run := func() {
		a.mu.Lock()
		delete(a.pending, w.ID)
		a.mu.Unlock()

		if err := a.works.SaveWork(context.Background(), w); err != nil {
			log.Printf("autosave: failed to persist work %s: %v", w.ID, err)
		}
	}
	a.pending[w.ID] = &pendingSave{
		timer: time.AfterFunc(a.delay, run),
		save:  run,
	}
}

// Flush persists every pending save immediately. Called on shutdown and
// before operations that must observe the latest content.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	saves := make([]func(), 0, len(a.pending))
	for _, p := range a.pending {
		if p.timer.Stop() {
			saves = append(saves, p.save)
		}
	}
	a.mu.Unlock()

	for _, save := range saves {
		save()
	}
}

// Cancel drops any pending save for the work without persisting it.
func (a *Autosaver) Cancel(workID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if p, ok := a.pending[workID]; ok {
		p.timer.Stop()
		delete(a.pending, workID)
	}
}

// Pending reports whether a save is queued for the work.
func (a *Autosaver) Pending(workID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[workID]
	return ok
}
