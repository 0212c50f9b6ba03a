package event

import (
	"context"

	"github.com/viant/procio/service/messaging/memory"
)

// Service bundles a lifecycle event queue with an optional listener.
type Service struct {
	publisher      *Publisher[any]
	listener       *Listener[any]
	newQueueConfig func(name string) memory.Config
}

// Option customises the event service.
type Option func(s *Service)

// WithNewQueueConfig sets the queue configuration factory.
func WithNewQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.newQueueConfig = newConfig
	}
}

// New creates an event service backed by an in-memory queue.
func New(opts ...Option) *Service {
	ret := &Service{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.newQueueConfig == nil {
		ret.newQueueConfig = func(name string) memory.Config {
			return memory.DefaultConfig()
		}
	}
	queue := memory.NewQueue[Event[any]](ret.newQueueConfig("lifecycle"))
	ret.publisher = NewPublisher[any](queue)
	return ret
}

// SetListener installs the handler, replacing any previous one.
func (s *Service) SetListener(handler func(*Event[any])) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler)
	s.listener.Start()
}

// Publish emits a lifecycle event for the given worker context.
func (s *Service) Publish(ctx context.Context, eventContext *Context, data any) error {
	if s == nil {
		return nil
	}
	return s.publisher.Publish(ctx, NewEvent[any](eventContext, data))
}

// Consume returns the next lifecycle event; used when no listener is set.
func (s *Service) Consume(ctx context.Context) (*Event[any], error) {
	return s.publisher.Consume(ctx)
}

// Shutdown stops the listener when one is active.
func (s *Service) Shutdown() {
	if s.listener != nil {
		s.listener.Stop()
	}
}
