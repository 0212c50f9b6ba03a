// Package progress provides a lightweight tracker that keeps aggregated task
// counters (submitted, completed, lost, …) for a single dispatcher pool.  The
// tracker instance lives in the submission context – every component that
// receives the context can atomically update the counters via the Delta
// helper without requiring a global registry.

package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the dispatcher.
// The fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	Submitted int
	Completed int
	Lost      int
	InFlight  int
}

// Progress keeps aggregated task counters for a worker pool.  It is safe for
// concurrent use.
type Progress struct {
	// Identification – informative only, filled when the pool starts.
	Program   string
	Workers   int
	StartedAt time.Time

	// Counters – modified via Update().
	SubmittedTasks int
	CompletedTasks int
	LostTasks      int
	InFlightTasks  int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta to the tracker.  It is safe to call from
// multiple goroutines.  If an onChange callback has been registered it will be
// invoked with a copy of the updated tracker outside the critical section so
// that the callback can perform slow operations (e.g. JSON encoding, I/O)
// without blocking dispatcher internals.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()

	p.SubmittedTasks += d.Submitted
	p.CompletedTasks += d.Completed
	p.LostTasks += d.Lost
	p.InFlightTasks += d.InFlight

	// Make a value-copy for the callback while we still hold the lock to
	// avoid seeing partially updated counters.
	snapshot := *p
	cb := p.onChange

	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return *p
}

// OnChange registers a callback that is invoked after every successful
// Update.  Passing nil disables the callback.  Only one callback can be
// active; subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both.  The caller may optionally pass an onChange
// callback that will be invoked after every counter update.
func WithNewTracker(ctx context.Context, program string, workers int, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		Program:   program,
		Workers:   workers,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext returns the tracker embedded in ctx, or nil when absent.
func FromContext(ctx context.Context) *Progress {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(trackerKey).(*Progress); ok {
		return v
	}
	return nil
}
