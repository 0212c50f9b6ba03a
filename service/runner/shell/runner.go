// Package shell provides a runner whose workers are interactive shell
// sessions. Every submitted line is executed as a shell command and the
// command output is folded into a single response line, which keeps shell
// workers usable behind the one-response-per-task pool contract.
package shell

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/gosh"
	grunner "github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
	"github.com/viant/procio/service/runner"
)

// Config controls shell session workers.
type Config struct {
	// Env is applied to every spawned session.
	Env map[string]string

	// TimeoutMs bounds a single command execution; zero means one minute.
	TimeoutMs int
}

// Option customises the runner.
type Option func(*Runner)

// WithEnv sets session environment variables.
func WithEnv(env map[string]string) Option {
	return func(r *Runner) {
		r.config.Env = env
	}
}

// WithTimeoutMs sets the per-command timeout.
func WithTimeoutMs(timeoutMs int) Option {
	return func(r *Runner) {
		r.config.TimeoutMs = timeoutMs
	}
}

// Runner spawns local shell sessions as workers.
type Runner struct {
	config Config
}

// New creates a shell runner.
func New(options ...Option) *Runner {
	ret := &Runner{}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Spawn opens a shell session. A non-empty program is executed as the
// session's initial command (typically a cd or an environment setup line).
func (r *Runner) Spawn(ctx context.Context, program string, args ...string) (runner.Handle, error) {
	var options []grunner.Option
	if len(r.config.Env) > 0 {
		options = append(options, grunner.WithEnvironment(r.config.Env))
	}
	service, err := gosh.New(ctx, local.New(options...))
	if err != nil {
		return nil, runner.NewSpawnError(program, err)
	}
	h := &handle{
		program:   program,
		service:   service,
		responses: channel.NewLine(16),
		timeoutMs: r.config.TimeoutMs,
		done:      make(chan struct{}),
	}
	if h.timeoutMs == 0 {
		h.timeoutMs = 60000
	}
	if init := strings.TrimSpace(program + " " + strings.Join(args, " ")); init != "" {
		if _, _, err := service.Run(ctx, init); err != nil {
			_ = service.Close()
			return nil, runner.NewSpawnError(program, err)
		}
	}
	return h, nil
}

type handle struct {
	program   string
	service   *gosh.Service
	responses *channel.Line
	timeoutMs int
	done      chan struct{}
	once      sync.Once
	mu        sync.Mutex
}

// WriteLine executes the line as a shell command and queues its folded
// output as the response. The sentinel terminates the session.
func (h *handle) WriteLine(ctx context.Context, line string) error {
	if protocol.IsSentinel(line) {
		return h.terminate()
	}
	select {
	case <-h.done:
		return channel.ErrClosed
	default:
	}
	h.mu.Lock()
	stdout, status, err := h.service.Run(ctx, line, grunner.WithTimeout(h.timeoutMs))
	h.mu.Unlock()
	return h.responses.Send(ctx, foldOutput(stdout, status, err))
}

func (h *handle) ReadLine(ctx context.Context) (string, error) {
	return h.responses.Receive(ctx)
}

func (h *handle) Kill() error {
	return h.terminate()
}

func (h *handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *handle) Close() error {
	return h.terminate()
}

func (h *handle) terminate() error {
	var err error
	h.once.Do(func() {
		err = h.service.Close()
		h.responses.Close()
		close(h.done)
	})
	if err != nil {
		return runner.NewProcessError(h.program, err)
	}
	return nil
}

// foldOutput reduces a command result to a single response line: the last
// non-empty stdout line on success, an in-band ERROR line otherwise.
func foldOutput(stdout string, status int, err error) string {
	if err != nil {
		return "ERROR " + err.Error()
	}
	if status != 0 {
		return fmt.Sprintf("ERROR exit %d", status)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return protocol.ReplyOK
}
