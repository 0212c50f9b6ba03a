package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procio/extension"
	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
	"github.com/viant/procio/model/worker"
	"github.com/viant/procio/progress"
	"github.com/viant/procio/service/dao"
	"github.com/viant/procio/service/event"
	"github.com/viant/procio/service/program/echo"
	"github.com/viant/procio/service/runner"
	"github.com/viant/procio/service/runner/memory"
)

// flaky echoes until it reads "die", then exits without responding.
type flaky struct{}

func (f *flaky) Name() string { return "flaky" }

func (f *flaky) Serve(ctx context.Context, conn channel.Conn, args ...string) error {
	for {
		line, err := conn.Receive(ctx)
		if err != nil {
			if errors.Is(err, channel.ErrClosed) {
				return nil
			}
			return err
		}
		if protocol.IsSentinel(line) {
			return nil
		}
		if line == "die" {
			return fmt.Errorf("simulated crash")
		}
		if err := conn.Send(ctx, line); err != nil {
			return err
		}
	}
}

// gate reads commands and never responds, keeping its worker busy forever.
type gate struct{}

func (g *gate) Name() string { return "gate" }

func (g *gate) Serve(ctx context.Context, conn channel.Conn, args ...string) error {
	for {
		line, err := conn.Receive(ctx)
		if err != nil {
			return nil
		}
		if protocol.IsSentinel(line) {
			return nil
		}
	}
}

func newTestRunner() runner.Runner {
	programs := extension.NewPrograms()
	programs.Register(echo.New())
	programs.Register(&flaky{})
	programs.Register(&gate{})
	return memory.New(programs)
}

func TestRoundRobinDistribution(t *testing.T) {
	ctx := context.Background()
	service, err := New(
		WithRunner(newTestRunner()),
		WithProgram("echo"),
		WithWorkers(3))
	assert.NoError(t, err)
	assert.NoError(t, service.Start(ctx))

	perWorker := map[int]int{}
	for i := 0; i < 6; i++ {
		payload := fmt.Sprintf("task-%d", i)
		assert.NoError(t, service.Submit(ctx, Task{Payload: payload}))

		msg, err := service.Results().Consume(ctx)
		assert.NoError(t, err)
		result := msg.T()
		assert.NoError(t, msg.Ack())
		assert.Equal(t, payload, result.Task)
		assert.Equal(t, payload, result.Response)
		perWorker[result.WorkerID]++
	}
	// Strict rotation: each of the 3 workers handled exactly 2 tasks.
	assert.Equal(t, map[int]int{0: 2, 1: 2, 2: 2}, perWorker)

	assert.NoError(t, service.Shutdown(ctx))
}

func TestSubmitRejectsSentinel(t *testing.T) {
	ctx := context.Background()
	service, err := New(WithRunner(newTestRunner()), WithProgram("echo"), WithWorkers(1))
	assert.NoError(t, err)
	assert.NoError(t, service.Start(ctx))

	assert.Error(t, service.Submit(ctx, Task{Payload: protocol.Sentinel}))
	assert.NoError(t, service.Shutdown(ctx))
}

func TestSubmitBackpressure(t *testing.T) {
	ctx := context.Background()
	service, err := New(WithRunner(newTestRunner()), WithProgram("gate"), WithWorkers(1))
	assert.NoError(t, err)
	assert.NoError(t, service.Start(ctx))

	// First task occupies the only worker.
	assert.NoError(t, service.Submit(ctx, Task{Payload: "first"}))

	// The second submission blocks until the caller gives up.
	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err = service.Submit(waitCtx, Task{Payload: "second"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, time.Second)
	defer cancelShutdown()
	// The gate worker never drains its task, so graceful shutdown times out.
	assert.Error(t, service.Shutdown(shutdownCtx))
}

func TestStartAllOrNothing(t *testing.T) {
	ctx := context.Background()
	failing := &failingRunner{delegate: newTestRunner(), failAt: 3}
	service, err := New(WithRunner(failing), WithProgram("echo"), WithWorkers(3))
	assert.NoError(t, err)

	err = service.Start(ctx)
	assert.Error(t, err)
	var spawnErr *runner.SpawnError
	assert.ErrorAs(t, err, &spawnErr)

	// The two workers spawned before the failure were torn down.
	records, err := service.Workers(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, worker.StateTerminated, record.State())
	}
}

type failingRunner struct {
	delegate runner.Runner
	spawns   int
	failAt   int
}

func (r *failingRunner) Spawn(ctx context.Context, program string, args ...string) (runner.Handle, error) {
	r.spawns++
	if r.spawns >= r.failAt {
		return nil, runner.NewSpawnError(program, fmt.Errorf("spawn refused"))
	}
	return r.delegate.Spawn(ctx, program, args...)
}

func TestShutdownIdempotent(t *testing.T) {
	ctx := context.Background()
	service, err := New(WithRunner(newTestRunner()), WithProgram("echo"), WithWorkers(2))
	assert.NoError(t, err)
	assert.NoError(t, service.Start(ctx))

	assert.NoError(t, service.Shutdown(ctx))
	assert.NoError(t, service.Shutdown(ctx))

	records, err := service.Workers(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, worker.StateTerminated, record.State())
	}

	// The state filter sees the same picture.
	terminated, err := service.Workers(ctx, worker.StateTerminated)
	assert.NoError(t, err)
	assert.Len(t, terminated, 2)
	idle, err := service.Workers(ctx, worker.StateIdle)
	assert.NoError(t, err)
	assert.Empty(t, idle)

	record, err := service.Worker(ctx, 0)
	assert.NoError(t, err)
	assert.Equal(t, "echo", record.Program)
	_, err = service.Worker(ctx, 42)
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestLostTaskReported(t *testing.T) {
	ctx := context.Background()
	service, err := New(WithRunner(newTestRunner()), WithProgram("flaky"), WithWorkers(2))
	assert.NoError(t, err)

	ctx, tracker := progress.WithNewTracker(ctx, "flaky", 2, nil)
	assert.NoError(t, service.Start(ctx))

	assert.NoError(t, service.Submit(ctx, Task{Payload: "die"}))

	// The worker exited mid-flight; its task lands on the lost queue and is
	// never resubmitted.
	msg, err := service.Lost().Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "die", msg.T().Payload)
	assert.NoError(t, msg.Ack())
	assert.Equal(t, 0, service.Results().Size())

	snapshot := tracker.Snapshot()
	assert.Equal(t, 1, snapshot.LostTasks)
	assert.Equal(t, 0, snapshot.InFlightTasks)

	// The surviving worker keeps serving.
	assert.NoError(t, service.Submit(ctx, Task{Payload: "still-alive"}))
	result, err := service.Results().Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "still-alive", result.T().Response)
	assert.NoError(t, result.Ack())

	assert.NoError(t, service.Shutdown(ctx))
}

func TestProgressCounters(t *testing.T) {
	ctx, tracker := progress.WithNewTracker(context.Background(), "echo", 2, nil)
	service, err := New(WithRunner(newTestRunner()), WithProgram("echo"), WithWorkers(2))
	assert.NoError(t, err)
	assert.NoError(t, service.Start(ctx))

	for i := 0; i < 4; i++ {
		assert.NoError(t, service.Submit(ctx, Task{Payload: fmt.Sprintf("task-%d", i)}))
		msg, err := service.Results().Consume(ctx)
		assert.NoError(t, err)
		assert.NoError(t, msg.Ack())
	}
	assert.NoError(t, service.Shutdown(ctx))

	snapshot := service.Progress()
	assert.Equal(t, 4, snapshot.SubmittedTasks)
	assert.Equal(t, 4, snapshot.CompletedTasks)
	assert.Equal(t, 0, snapshot.LostTasks)
	assert.Equal(t, 0, snapshot.InFlightTasks)
	assert.Equal(t, tracker.Snapshot().SubmittedTasks, snapshot.SubmittedTasks)
}

func TestLifecycleEvents(t *testing.T) {
	ctx := context.Background()
	events := event.New()
	service, err := New(
		WithRunner(newTestRunner()),
		WithProgram("echo"),
		WithWorkers(2),
		WithEvents(events))
	assert.NoError(t, err)

	assert.NoError(t, service.Start(ctx))
	for i := 0; i < 2; i++ {
		e, err := events.Consume(ctx)
		assert.NoError(t, err)
		assert.Equal(t, event.TypeWorkerStarted, e.Context.EventType)
		assert.Equal(t, "echo", e.Context.Program)
	}

	assert.NoError(t, service.Shutdown(ctx))
	for i := 0; i < 2; i++ {
		e, err := events.Consume(ctx)
		assert.NoError(t, err)
		assert.Equal(t, event.TypeWorkerRetired, e.Context.EventType)
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(WithProgram("echo"))
	assert.Error(t, err)

	_, err = New(WithRunner(newTestRunner()))
	assert.Error(t, err)

	_, err = New(WithRunner(newTestRunner()), WithProgram("echo"), WithWorkers(0))
	assert.Error(t, err)
}
