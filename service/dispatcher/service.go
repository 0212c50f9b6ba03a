package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
	"github.com/viant/procio/model/worker"
	"github.com/viant/procio/progress"
	"github.com/viant/procio/service/dao"
	"github.com/viant/procio/service/dao/store"
	"github.com/viant/procio/service/event"
	mmemory "github.com/viant/procio/service/messaging/memory"
	"github.com/viant/procio/service/runner"
	"github.com/viant/procio/tracing"
)

// Task is a single unit of pool work.
type Task struct {
	Payload string `json:"payload"`
}

// IsSentinel reports whether the task carries the termination sentinel.
func (t Task) IsSentinel() bool {
	return protocol.IsSentinel(t.Payload)
}

// Result reports the completion of one task by one worker.
type Result struct {
	WorkerID int    `json:"workerId"`
	Task     string `json:"task"`
	Response string `json:"response"`
}

// Config represents dispatcher configuration
type Config struct {
	// WorkerCount is the number of pooled workers
	WorkerCount int

	// Program names the worker entrypoint every pool member runs
	Program string

	// Args are passed to every spawned worker
	Args []string
}

// DefaultConfig returns the default dispatcher configuration
func DefaultConfig() Config {
	return Config{
		WorkerCount: 5,
	}
}

// Service owns a fixed set of workers and their channel pairs, distributes
// tasks across them and reports completions. It promises per-worker FIFO but
// not that result order equals submission order across workers.
type Service struct {
	config    Config
	runner    runner.Runner
	results   *mmemory.Queue[Result]
	lost      *mmemory.Queue[Task]
	workerDAO *store.MemoryStore[int, worker.Worker]
	events    *event.Service

	mu      sync.Mutex
	workers []*poolWorker
	next    int
	started bool

	// tracker is captured from the Start context; nil disables counting.
	tracker *progress.Progress

	// avail wakes blocked submitters whenever a worker may have become idle.
	avail chan struct{}

	watcherWg    sync.WaitGroup
	shutdownOnce sync.Once
	shutdownErr  error
}

type poolWorker struct {
	record   *worker.Worker
	handle   runner.Handle
	inflight *Task
}

// New creates a dispatcher service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:    DefaultConfig(),
		workerDAO: store.NewMemoryStore[int, worker.Worker](
			func(w *worker.Worker) int { return w.ID },
			func(w *worker.Worker, criterion *dao.Criterion) bool {
				return criterion.Field == "state" && string(w.State()) == criterion.Value
			}),
	}
	for _, option := range options {
		option(s)
	}
	if s.runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if s.config.Program == "" {
		return nil, fmt.Errorf("worker program is required")
	}
	if s.config.WorkerCount <= 0 {
		return nil, fmt.Errorf("worker count must be positive")
	}
	if s.results == nil {
		s.results = mmemory.NewQueue[Result](mmemory.DefaultConfig())
	}
	s.lost = mmemory.NewQueue[Task](mmemory.DefaultConfig())
	s.avail = make(chan struct{}, s.config.WorkerCount)
	return s, nil
}

// Start spawns all workers. Startup is all-or-nothing: when any spawn fails
// the already-started workers are torn down and the spawn error returned.
func (s *Service) Start(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "dispatcher.Start", "INTERNAL")
	defer tracing.EndSpan(span, err)
	span.WithAttributes(map[string]string{"program": s.config.Program})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("dispatcher already started")
	}
	for i := 0; i < s.config.WorkerCount; i++ {
		record := worker.New(i, s.config.Program)
		handle, spawnErr := s.runner.Spawn(ctx, s.config.Program, s.config.Args...)
		if spawnErr != nil {
			s.teardownLocked()
			err = spawnErr
			return err
		}
		if tErr := record.Transition(worker.StateIdle); tErr != nil {
			s.teardownLocked()
			err = tErr
			return err
		}
		pw := &poolWorker{record: record, handle: handle}
		s.workers = append(s.workers, pw)
		_ = s.workerDAO.Save(ctx, record)
	}
	s.started = true
	s.tracker = progress.FromContext(ctx)
	for _, pw := range s.workers {
		s.watcherWg.Add(1)
		go s.watch(pw)
		s.publishEvent(ctx, event.TypeWorkerStarted, pw)
	}
	return nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, pw *poolWorker) {
	if s.events == nil {
		return
	}
	eventContext := &event.Context{
		WorkerID:  pw.record.ID,
		Program:   s.config.Program,
		EventType: eventType,
		State:     string(pw.record.State()),
	}
	if err := s.events.Publish(ctx, eventContext, nil); err != nil {
		log.Printf("dispatcher: failed to publish %s for worker %d: %v", eventType, pw.record.ID, err)
	}
}

// teardownLocked kills and releases every worker spawned so far.
func (s *Service) teardownLocked() {
	for _, pw := range s.workers {
		_ = pw.handle.Kill()
		_ = pw.handle.Close()
		pw.record.ForceTerminate()
	}
	s.workers = nil
}

// watch observes the worker process and reports an unexpected exit: the
// worker is marked terminated, the anomaly logged and its in-flight task
// parked on the lost queue - never resubmitted.
func (s *Service) watch(pw *poolWorker) {
	defer s.watcherWg.Done()
	waitErr := pw.handle.Wait(context.Background())

	s.mu.Lock()
	state := pw.record.State()
	inflight := pw.inflight
	pw.inflight = nil
	pw.record.ForceTerminate()
	s.mu.Unlock()

	if state != worker.StateTerminating && state != worker.StateTerminated {
		log.Printf("dispatcher: worker %d exited unexpectedly (state=%v): %v", pw.record.ID, state, waitErr)
		s.publishEvent(context.Background(), event.TypeWorkerLost, pw)
		if inflight != nil {
			s.tracker.Update(progress.Delta{Lost: 1, InFlight: -1})
			if err := s.lost.Publish(context.Background(), inflight); err != nil {
				log.Printf("dispatcher: failed to report lost task %q: %v", inflight.Payload, err)
			}
		}
	}
	s.signalAvail()
}

func (s *Service) signalAvail() {
	select {
	case s.avail <- struct{}{}:
	default:
	}
}

// Submit assigns the task to the next idle worker in round-robin order,
// lowest id first on simultaneous availability. When every worker is busy it
// blocks until one becomes idle - backpressure, not dropping.
func (s *Service) Submit(ctx context.Context, task Task) (err error) {
	ctx, span := tracing.StartSpan(ctx, "dispatcher.Submit", "INTERNAL")
	defer tracing.EndSpan(span, err)

	if task.IsSentinel() {
		return fmt.Errorf("sentinel tasks are reserved for Shutdown")
	}
	for {
		pw, pickErr := s.pick()
		if pickErr != nil {
			err = pickErr
			return err
		}
		if pw != nil {
			err = s.deliver(ctx, pw, task)
			return err
		}
		select {
		case <-s.avail:
		case <-ctx.Done():
			err = ctx.Err()
			return err
		}
	}
}

// pick claims the next idle worker, scanning cyclically from the round-robin
// cursor so earlier ids win ties. A nil worker with nil error means all
// workers are currently busy.
func (s *Service) pick() (*poolWorker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, fmt.Errorf("dispatcher not started")
	}
	count := len(s.workers)
	live := 0
	for k := 0; k < count; k++ {
		idx := (s.next + k) % count
		pw := s.workers[idx]
		switch pw.record.State() {
		case worker.StateIdle:
			if err := pw.record.Transition(worker.StateBusy); err != nil {
				return nil, err
			}
			s.next = (idx + 1) % count
			return pw, nil
		case worker.StateBusy:
			live++
		}
	}
	if live == 0 {
		return nil, fmt.Errorf("no live workers available")
	}
	return nil, nil
}

// deliver writes the task and collects its single response asynchronously.
func (s *Service) deliver(ctx context.Context, pw *poolWorker, task Task) error {
	s.mu.Lock()
	pw.inflight = &task
	s.mu.Unlock()

	if err := pw.handle.WriteLine(ctx, task.Payload); err != nil {
		// Channel failure: surface to the caller, the worker is done for.
		s.mu.Lock()
		pw.inflight = nil
		pw.record.ForceTerminate()
		s.mu.Unlock()
		_ = pw.handle.Kill()
		return err
	}
	s.tracker.Update(progress.Delta{Submitted: 1, InFlight: 1})

	go func() {
		response, err := pw.handle.ReadLine(context.Background())
		if err != nil {
			// End of stream is handled by the watcher which reports the
			// in-flight task as lost.
			if !errors.Is(err, channel.ErrClosed) {
				log.Printf("dispatcher: worker %d read failure: %v", pw.record.ID, err)
			}
			return
		}
		s.mu.Lock()
		pw.inflight = nil
		if pw.record.State() == worker.StateBusy {
			_ = pw.record.Transition(worker.StateIdle)
		}
		s.mu.Unlock()
		s.tracker.Update(progress.Delta{Completed: 1, InFlight: -1})

		result := Result{WorkerID: pw.record.ID, Task: task.Payload, Response: response}
		if err := s.results.Publish(context.Background(), &result); err != nil {
			log.Printf("dispatcher: failed to publish result for %q: %v", task.Payload, err)
		}
		s.signalAvail()
	}()
	return nil
}

// Results returns the completion queue.
func (s *Service) Results() *mmemory.Queue[Result] {
	return s.results
}

// Progress returns a snapshot of the task counters; the zero value when no
// tracker was attached to the Start context.
func (s *Service) Progress() progress.Progress {
	s.mu.Lock()
	tracker := s.tracker
	s.mu.Unlock()
	return tracker.Snapshot()
}

// Lost returns the queue of tasks whose workers died mid-flight.
func (s *Service) Lost() *mmemory.Queue[Task] {
	return s.lost
}

// Workers lists the worker records, optionally narrowed to the given
// lifecycle states.
func (s *Service) Workers(ctx context.Context, states ...worker.State) ([]*worker.Worker, error) {
	criteria := make([]*dao.Criterion, 0, len(states))
	for _, state := range states {
		criteria = append(criteria, dao.NewCriterion("state", string(state)))
	}
	return s.workerDAO.List(ctx, criteria...)
}

// Worker returns a single worker record, dao.ErrNotFound when the id was
// never part of the pool.
func (s *Service) Worker(ctx context.Context, id int) (*worker.Worker, error) {
	record, err := s.workerDAO.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, dao.ErrNotFound
	}
	return record, nil
}

// Shutdown sends the sentinel to every worker, waits until each reaches the
// terminated state and releases the channel pairs. It is idempotent - the
// second call is a no-op.
func (s *Service) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.shutdownErr = s.shutdown(ctx)
	})
	return s.shutdownErr
}

func (s *Service) shutdown(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "dispatcher.Shutdown", "INTERNAL")
	defer tracing.EndSpan(span, err)

	s.mu.Lock()
	workers := append([]*poolWorker{}, s.workers...)
	s.mu.Unlock()

	for _, pw := range workers {
		if err = s.retire(ctx, pw); err != nil {
			return err
		}
	}
	s.watcherWg.Wait()
	for _, pw := range workers {
		_ = pw.handle.Close()
	}
	return nil
}

// retire waits for the worker to drain its current task, then sends the
// sentinel so it stops its read loop. The sentinel is always the last line
// the worker observes.
func (s *Service) retire(ctx context.Context, pw *poolWorker) error {
	for {
		s.mu.Lock()
		state := pw.record.State()
		if state == worker.StateIdle {
			if err := pw.record.Transition(worker.StateTerminating); err != nil {
				s.mu.Unlock()
				return err
			}
			s.mu.Unlock()
			if err := pw.handle.WriteLine(ctx, protocol.Sentinel); err != nil && !errors.Is(err, channel.ErrClosed) {
				return err
			}
			if err := s.awaitExit(ctx, pw); err != nil {
				return err
			}
			s.publishEvent(ctx, event.TypeWorkerRetired, pw)
			return nil
		}
		s.mu.Unlock()
		if state == worker.StateTerminated || state == worker.StateTerminating {
			return s.awaitExit(ctx, pw)
		}
		select {
		case <-s.avail:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Service) awaitExit(ctx context.Context, pw *poolWorker) error {
	if err := pw.handle.Wait(ctx); err != nil {
		var processErr *runner.ProcessError
		if errors.As(err, &processErr) {
			log.Printf("dispatcher: worker %d reported failure on exit: %v", pw.record.ID, err)
			return nil
		}
		return err
	}
	return nil
}
