// Package exec provides the child-process runner: each worker is spawned as
// an OS process whose stdin/stdout carry the newline-delimited protocol.
// Stderr is left attached to the parent as the out-of-band log channel.
package exec

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/policy"
	"github.com/viant/procio/service/runner"
)

// Config controls how worker processes are launched.
type Config struct {
	// Binary is the worker host executable. When set, Spawn runs
	// "binary [baseArgs...] program [args...]"; when empty the program name
	// itself is treated as the executable path.
	Binary   string
	BaseArgs []string

	// GracePeriod bounds how long Kill waits between SIGTERM and SIGKILL.
	GracePeriod time.Duration
}

// DefaultConfig returns the default exec runner configuration.
func DefaultConfig() Config {
	return Config{
		GracePeriod: 5 * time.Second,
	}
}

// Option customises the runner.
type Option func(*Runner)

// WithBinary sets the worker host executable.
func WithBinary(binary string, baseArgs ...string) Option {
	return func(r *Runner) {
		r.config.Binary = binary
		r.config.BaseArgs = baseArgs
	}
}

// WithGracePeriod sets the SIGTERM to SIGKILL escalation delay.
func WithGracePeriod(period time.Duration) Option {
	return func(r *Runner) {
		r.config.GracePeriod = period
	}
}

// Runner spawns workers as child processes.
type Runner struct {
	config Config
}

// New creates a child-process runner.
func New(options ...Option) *Runner {
	ret := &Runner{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Spawn starts the worker process and wires its stdio into a Handle.
func (r *Runner) Spawn(ctx context.Context, program string, args ...string) (runner.Handle, error) {
	if p := policy.FromContext(ctx); !p.Admit(ctx, program, args) {
		return nil, runner.NewSpawnError(program, runner.ErrDenied)
	}
	name := r.config.Binary
	argv := append([]string{}, r.config.BaseArgs...)
	if name == "" {
		name = program
		argv = append(argv, args...)
	} else {
		argv = append(argv, program)
		argv = append(argv, args...)
	}
	if name == "" {
		return nil, runner.NewSpawnError(program, fmt.Errorf("worker entrypoint is required"))
	}

	cmd := osexec.Command(name, argv...) //nolint:gosec // spawning workers is the purpose of this package
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, runner.NewSpawnError(program, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, runner.NewSpawnError(program, err)
	}
	cmd.Stderr = os.Stderr

	// Own process group so the whole worker tree can be signalled.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, runner.NewSpawnError(program, err)
	}

	h := &handle{
		program:     program,
		cmd:         cmd,
		stdin:       stdin,
		lines:       make(chan string),
		stop:        make(chan struct{}),
		readerDone:  make(chan struct{}),
		waitDone:    make(chan struct{}),
		gracePeriod: r.config.GracePeriod,
	}
	go h.pump(stdout)
	go h.reap()
	return h, nil
}

type handle struct {
	program     string
	cmd         *osexec.Cmd
	stdin       io.WriteCloser
	lines       chan string
	stop        chan struct{}
	readerDone  chan struct{}
	waitDone    chan struct{}
	gracePeriod time.Duration

	writeMu  sync.Mutex
	stopOnce sync.Once
	waitErr  error
}

// pump forwards stdout lines into the handle until EOF.
func (h *handle) pump(stdout io.Reader) {
	defer close(h.readerDone)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		select {
		case h.lines <- scanner.Text():
		case <-h.stop:
			return
		}
	}
}

// reap waits for the process once stdout has drained.
func (h *handle) reap() {
	<-h.readerDone
	h.waitErr = h.cmd.Wait()
	close(h.waitDone)
}

func (h *handle) WriteLine(ctx context.Context, line string) error {
	select {
	case <-h.waitDone:
		return channel.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if _, err := h.stdin.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("failed to write to worker %q: %w", h.program, err)
	}
	return nil
}

func (h *handle) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-h.lines:
		return line, nil
	case <-h.readerDone:
		// Drain a line that raced with EOF.
		select {
		case line := <-h.lines:
			return line, nil
		default:
			return "", channel.ErrClosed
		}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Kill signals the worker process group with SIGTERM, escalating to SIGKILL
// after the grace period.
func (h *handle) Kill() error {
	if h.cmd.Process == nil {
		return nil
	}
	pid := h.cmd.Process.Pid
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		return runner.NewProcessError(h.program, err)
	}
	go func() {
		select {
		case <-h.waitDone:
		case <-time.After(h.gracePeriod):
			_ = syscall.Kill(-pid, syscall.SIGKILL)
		}
	}()
	return nil
}

func (h *handle) Wait(ctx context.Context) error {
	select {
	case <-h.waitDone:
	case <-ctx.Done():
		return ctx.Err()
	}
	if h.waitErr != nil {
		return runner.NewProcessError(h.program, h.waitErr)
	}
	return nil
}

func (h *handle) Close() error {
	var err error
	h.stopOnce.Do(func() {
		err = h.stdin.Close()
		close(h.stop)
	})
	return err
}
