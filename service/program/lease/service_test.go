package lease_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procio/extension"
	"github.com/viant/procio/service/program/lease"
	"github.com/viant/procio/service/runner/memory"
)

func startManager(t *testing.T, args ...string) *lease.Client {
	programs := extension.NewPrograms()
	programs.Register(lease.New())
	handle, err := memory.New(programs).Spawn(context.Background(), lease.Name, args...)
	assert.NoError(t, err)
	return lease.NewClient(handle)
}

func TestCapacityEnforced(t *testing.T) {
	ctx := context.Background()
	client := startManager(t, "2")

	first, err := client.Acquire(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "resource-1", first)

	second, err := client.Acquire(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "resource-2", second)

	// At capacity the next acquire fails with the in-band limit condition.
	_, err = client.Acquire(ctx)
	assert.ErrorIs(t, err, lease.ErrLimit)

	// A release restores exactly one slot.
	assert.NoError(t, client.Release(ctx, first))
	third, err := client.Acquire(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "resource-3", third)

	_, err = client.Acquire(ctx)
	assert.ErrorIs(t, err, lease.ErrLimit)

	assert.NoError(t, client.Quit(ctx))
}

func TestReleaseExactlyOnce(t *testing.T) {
	ctx := context.Background()
	client := startManager(t)

	id, err := client.Acquire(ctx)
	assert.NoError(t, err)

	assert.NoError(t, client.Release(ctx, id))
	assert.ErrorIs(t, client.Release(ctx, id), lease.ErrInvalidID)
	assert.ErrorIs(t, client.Release(ctx, "resource-99"), lease.ErrInvalidID)
	assert.ErrorIs(t, client.Release(ctx, ""), lease.ErrInvalidID)

	assert.NoError(t, client.Quit(ctx))
}

func TestIDsNeverReused(t *testing.T) {
	ctx := context.Background()
	client := startManager(t, "1")

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := client.Acquire(ctx)
		assert.NoError(t, err)
		assert.False(t, seen[id], "id %s reused", id)
		seen[id] = true
		assert.NoError(t, client.Release(ctx, id))
	}
	assert.NoError(t, client.Quit(ctx))
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	client := startManager(t, "3")

	active, available, err := client.Status(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, active)
	assert.Equal(t, 3, available)

	id, _ := client.Acquire(ctx)
	active, available, err = client.Status(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, active)
	assert.Equal(t, 2, available)

	assert.NoError(t, client.Release(ctx, id))
	active, available, _ = client.Status(ctx)
	assert.Equal(t, 0, active)
	assert.Equal(t, 3, available)

	assert.NoError(t, client.Quit(ctx))
}

func TestDefaultCapacity(t *testing.T) {
	ctx := context.Background()
	client := startManager(t)

	_, available, err := client.Status(ctx)
	assert.NoError(t, err)
	assert.Equal(t, lease.DefaultCapacity, available)

	assert.NoError(t, client.Quit(ctx))
}
