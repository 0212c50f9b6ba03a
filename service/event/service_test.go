package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishConsume(t *testing.T) {
	ctx := context.Background()
	service := New()

	assert.NoError(t, service.Publish(ctx, &Context{WorkerID: 1, Program: "echo", EventType: TypeWorkerStarted}, nil))
	assert.NoError(t, service.Publish(ctx, &Context{WorkerID: 1, Program: "echo", EventType: TypeWorkerLost}, nil))

	first, err := service.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, TypeWorkerStarted, first.Context.EventType)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := service.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, TypeWorkerLost, second.Context.EventType)
}

func TestListener(t *testing.T) {
	ctx := context.Background()
	service := New()
	defer service.Shutdown()

	var mu sync.Mutex
	var seen []string
	done := make(chan struct{})
	service.SetListener(func(e *Event[any]) {
		mu.Lock()
		seen = append(seen, e.Context.EventType)
		if len(seen) == 2 {
			close(done)
		}
		mu.Unlock()
	})

	assert.NoError(t, service.Publish(ctx, &Context{WorkerID: 0, EventType: TypeWorkerStarted}, nil))
	assert.NoError(t, service.Publish(ctx, &Context{WorkerID: 0, EventType: TypeWorkerRetired}, nil))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not observe events in time")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{TypeWorkerStarted, TypeWorkerRetired}, seen)
}

func TestNilServicePublish(t *testing.T) {
	var service *Service
	assert.NoError(t, service.Publish(context.Background(), &Context{}, nil))
}
