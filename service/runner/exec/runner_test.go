package exec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/policy"
	"github.com/viant/procio/service/runner"
)

// /bin/cat echoes stdin to stdout line by line, which makes it a minimal
// stand-in for a worker process.
func TestSpawnCat(t *testing.T) {
	ctx := context.Background()
	handle, err := New().Spawn(ctx, "/bin/cat")
	assert.NoError(t, err)

	for _, line := range []string{"first", "second"} {
		assert.NoError(t, handle.WriteLine(ctx, line))
		response, err := handle.ReadLine(ctx)
		assert.NoError(t, err)
		assert.Equal(t, line, response)
	}

	// Closing stdin ends the process cleanly.
	assert.NoError(t, handle.Close())
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	assert.NoError(t, handle.Wait(waitCtx))

	_, err = handle.ReadLine(ctx)
	assert.ErrorIs(t, err, channel.ErrClosed)
}

func TestSpawnMissingBinary(t *testing.T) {
	_, err := New().Spawn(context.Background(), "/no/such/binary")
	assert.Error(t, err)
	var spawnErr *runner.SpawnError
	assert.ErrorAs(t, err, &spawnErr)
}

func TestSpawnEmptyEntrypoint(t *testing.T) {
	_, err := New().Spawn(context.Background(), "")
	assert.Error(t, err)
}

func TestKillTerminatesProcessGroup(t *testing.T) {
	ctx := context.Background()
	handle, err := New(WithGracePeriod(time.Second)).Spawn(ctx, "/bin/cat")
	assert.NoError(t, err)

	assert.NoError(t, handle.Kill())
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	// SIGTERM surfaces as a process failure on exit.
	assert.Error(t, handle.Wait(waitCtx))
	assert.NoError(t, handle.Close())
}

func TestPolicyDeniesSpawn(t *testing.T) {
	ctx := policy.WithPolicy(context.Background(), &policy.Policy{Mode: policy.ModeDeny})
	_, err := New().Spawn(ctx, "/bin/cat")
	assert.ErrorIs(t, err, runner.ErrDenied)
}
