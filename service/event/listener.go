package event

import (
	"context"
	"log"
)

// Listener invokes a handler for every event the publisher yields.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewListener creates a stopped listener; call Start to begin consuming.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Stop terminates the consume loop.
func (l *Listener[T]) Stop() {
	l.cancel()
}

// Start launches the consume loop in its own goroutine.
func (l *Listener[T]) Start() {
	go func() {
		for {
			event, err := l.publisher.Consume(l.ctx)
			if l.ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Printf("event: failed to consume: %v", err)
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}
