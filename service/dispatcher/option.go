package dispatcher

import (
	"github.com/viant/procio/service/event"
	mmemory "github.com/viant/procio/service/messaging/memory"
	"github.com/viant/procio/service/runner"
)

// Option customises the dispatcher service.
type Option func(*Service)

// WithRunner sets the worker runner implementation
func WithRunner(r runner.Runner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithProgram sets the worker entrypoint and its arguments
func WithProgram(program string, args ...string) Option {
	return func(s *Service) {
		s.config.Program = program
		s.config.Args = args
	}
}

// WithWorkers sets the pool size
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}

// WithResults sets a custom completion queue
func WithResults(queue *mmemory.Queue[Result]) Option {
	return func(s *Service) {
		s.results = queue
	}
}

// WithEvents sets a lifecycle event service the pool publishes to
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}
