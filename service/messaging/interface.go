package messaging

import (
	"context"
)

// Queue represents an abstract message queue for any payload type. The
// dispatcher publishes task completions to one queue and lost in-flight
// tasks to another; callers consume both.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue
	Consume(ctx context.Context) (Message[T], error)

	// Size returns the number of messages currently queued
	Size() int
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack reports failed processing; the message moves to the dead-letter
	// side rather than being redelivered (at-most-once, lost work is
	// reported, not silently retried)
	Nack(err error) error
}
