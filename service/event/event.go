// Package event publishes worker lifecycle notifications (started, retired,
// lost) over a message queue so that monitoring code can observe a pool
// without coupling to dispatcher internals.
package event

import "time"

// Lifecycle event types.
const (
	TypeWorkerStarted = "workerStarted"
	TypeWorkerRetired = "workerRetired"
	TypeWorkerLost    = "workerLost"
)

// Context identifies the worker an event concerns.
type Context struct {
	WorkerID  int    `json:"workerId"`
	Program   string `json:"program"`
	EventType string `json:"eventType"`
	State     string `json:"state"`
}

// Event carries a lifecycle notification with an optional typed payload.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event for the given worker context.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
