// Package memory provides an in-process runner: each spawned worker is a
// goroutine serving a registered program over an in-memory channel pair. It
// mirrors the child-process runner closely enough that orchestration code
// and tests are oblivious to which one they drive.
package memory

import (
	"context"
	"sync"

	"github.com/viant/procio/extension"
	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/types"
	"github.com/viant/procio/policy"
	"github.com/viant/procio/service/runner"
)

// Runner spawns registered programs as goroutines.
type Runner struct {
	programs *extension.Programs
}

// New creates an in-process runner backed by the supplied registry.
func New(programs *extension.Programs) *Runner {
	return &Runner{programs: programs}
}

// Spawn resolves the program by name and starts its serve loop. The worker
// lives until it observes the sentinel, the driver kills it, or its channel
// pair is closed.
func (r *Runner) Spawn(ctx context.Context, program string, args ...string) (runner.Handle, error) {
	if p := policy.FromContext(ctx); !p.Admit(ctx, program, args) {
		return nil, runner.NewSpawnError(program, runner.ErrDenied)
	}
	resolved := r.programs.Lookup(program)
	if resolved == nil {
		return nil, runner.NewSpawnError(program, types.NewProgramNotFoundError(program))
	}

	// The worker lifetime is decoupled from the spawn context - a short-lived
	// start context must not tear the worker down.
	workerCtx, cancel := context.WithCancel(context.Background())
	commands := channel.NewLine(0)
	responses := channel.NewLine(16)
	h := &handle{
		program:   program,
		commands:  commands,
		responses: responses,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		err := resolved.Serve(workerCtx, channel.Join(commands, responses), args...)
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		// The program returned; close both directions so pending reads drain
		// and then observe end of stream.
		responses.Close()
		commands.Close()
	}()
	return h, nil
}

type handle struct {
	program   string
	commands  *channel.Line
	responses *channel.Line
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
	err       error
}

func (h *handle) WriteLine(ctx context.Context, line string) error {
	return h.commands.Send(ctx, line)
}

func (h *handle) ReadLine(ctx context.Context) (string, error) {
	return h.responses.Receive(ctx)
}

func (h *handle) Kill() error {
	h.cancel()
	h.commands.Close()
	h.responses.Close()
	return nil
}

func (h *handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil && h.err != context.Canceled {
		return runner.NewProcessError(h.program, h.err)
	}
	return nil
}

func (h *handle) Close() error {
	h.cancel()
	h.commands.Close()
	h.responses.Close()
	return nil
}
