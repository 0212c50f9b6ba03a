package worker

import (
	"sync"
	"time"

	"github.com/viant/procio/internal/clock"
)

// Worker is the bookkeeping record for a single long-lived unit of
// execution. The process handle and channel pair are owned exclusively by
// the dispatcher or service that spawned the worker; this record only tracks
// identity and lifecycle state.
type Worker struct {
	ID        int    `json:"id"`
	Program   string `json:"program"`
	CreatedAt time.Time
	UpdatedAt time.Time

	mu    sync.RWMutex
	state State
}

// New creates a worker record in the Starting state.
func New(id int, program string) *Worker {
	now := clock.Now()
	return &Worker{
		ID:        id,
		Program:   program,
		CreatedAt: now,
		UpdatedAt: now,
		state:     StateStarting,
	}
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Transition moves the worker to the next state, rejecting anything the
// lifecycle does not permit.
func (w *Worker) Transition(next State) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.state.canTransition(next) {
		return NewIllegalTransitionError(w.state, next)
	}
	w.state = next
	w.UpdatedAt = clock.Now()
	return nil
}

// ForceTerminate marks the worker Terminated regardless of its current
// state, passing through Terminating so no step of the lifecycle is skipped.
// Used when the underlying process exits unexpectedly.
func (w *Worker) ForceTerminate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateTerminated {
		return
	}
	if w.state != StateTerminating {
		w.state = StateTerminating
	}
	w.state = StateTerminated
	w.UpdatedAt = clock.Now()
}
