package runner

import (
	"context"
	"errors"
	"fmt"
)

// ErrDenied indicates a spawn request was rejected by an admission policy.
var ErrDenied = errors.New("spawn denied by policy")

// Handle is the driver-side grip on a spawned worker. All communication goes
// through WriteLine/ReadLine; a worker has exactly one input and one output
// channel for its lifetime and no third party may touch either.
type Handle interface {
	// WriteLine delivers a single command line to the worker input channel.
	WriteLine(ctx context.Context, line string) error

	// ReadLine blocks until the worker emits the next output line. End of
	// stream surfaces as channel.ErrClosed.
	ReadLine(ctx context.Context) (string, error)

	// Kill forcibly terminates the worker.
	Kill() error

	// Wait blocks until the worker has fully terminated.
	Wait(ctx context.Context) error

	// Close releases the channel pair. The driver must call it once the
	// worker reached the terminated state; not doing so leaks resources.
	Close() error
}

// Runner abstracts worker creation so the orchestration layer stays portable
// across in-process goroutines, child processes and shell sessions.
type Runner interface {
	Spawn(ctx context.Context, program string, args ...string) (Handle, error)
}

// SpawnError indicates a worker could not be created. It is fatal to
// pool/service startup - partially started workers are torn down.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn worker %q: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// NewSpawnError creates a SpawnError for the given program.
func NewSpawnError(program string, err error) *SpawnError {
	return &SpawnError{Program: program, Err: err}
}

// ProcessError indicates an unexpected worker exit (not via sentinel). It is
// reported to the driver and never retried automatically.
type ProcessError struct {
	Program string
	Err     error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("worker %q process failure: %v", e.Program, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// NewProcessError creates a ProcessError for the given program.
func NewProcessError(program string, err error) *ProcessError {
	return &ProcessError{Program: program, Err: err}
}
