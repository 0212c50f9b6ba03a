// Package pipeline chains workers so each stage's emitted lines become the
// next stage's input. The orchestrator - not the OS - performs the relay,
// which makes back-pressure and error propagation explicit: a slow
// downstream stage blocks its relay loop, which blocks reads from the
// upstream stage, with no buffering beyond one line of slack per boundary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/viant/procio/model/channel"
	"github.com/viant/procio/model/protocol"
	"github.com/viant/procio/model/worker"
	"github.com/viant/procio/service/runner"
	"github.com/viant/procio/tracing"
)

// StageSpec describes one stage of the chain.
type StageSpec struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Program string   `json:"program" yaml:"program"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Service builds and runs a single pipeline instance. Workers are not
// reusable once terminated; restart means rebuilding.
type Service struct {
	runner  runner.Runner
	stages  []StageSpec
	workers []*worker.Worker
	handles []runner.Handle
	built   bool
	ran     bool
}

// New creates a pipeline over the supplied stages.
func New(r runner.Runner, stages ...StageSpec) *Service {
	return &Service{runner: r, stages: stages}
}

// Build spawns one worker per stage, all-or-nothing.
func (s *Service) Build(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Build", "INTERNAL")
	defer tracing.EndSpan(span, err)

	if s.built {
		return fmt.Errorf("pipeline already built")
	}
	if len(s.stages) == 0 {
		return fmt.Errorf("pipeline requires at least one stage")
	}
	for i, stage := range s.stages {
		record := worker.New(i, stage.Program)
		handle, spawnErr := s.runner.Spawn(ctx, stage.Program, stage.Args...)
		if spawnErr != nil {
			s.teardown()
			err = spawnErr
			return err
		}
		if tErr := record.Transition(worker.StateIdle); tErr != nil {
			s.teardown()
			err = tErr
			return err
		}
		s.workers = append(s.workers, record)
		s.handles = append(s.handles, handle)
	}
	s.built = true
	return nil
}

func (s *Service) teardown() {
	for i, handle := range s.handles {
		_ = handle.Kill()
		_ = handle.Close()
		s.workers[i].ForceTerminate()
	}
	s.handles = nil
	s.workers = nil
}

// Run feeds the seed lines into the first stage and returns a lazy sequence
// of end-to-end transformed lines. The sequence is finite whenever the
// generator stage is finite; relative order of surviving lines is preserved
// at every stage boundary.
func (s *Service) Run(ctx context.Context, seed ...string) (<-chan string, error) {
	runCtx, span := tracing.StartSpan(ctx, "pipeline.Run", "INTERNAL")
	_ = runCtx
	if !s.built {
		err := fmt.Errorf("pipeline not built")
		tracing.EndSpan(span, err)
		return nil, err
	}
	if s.ran {
		err := fmt.Errorf("pipeline is single-shot; rebuild to restart")
		tracing.EndSpan(span, err)
		return nil, err
	}
	s.ran = true

	for _, record := range s.workers {
		_ = record.Transition(worker.StateBusy)
	}

	// Feed the generator stage, then signal end of input.
	go func() {
		first := s.handles[0]
		for _, line := range seed {
			if err := first.WriteLine(ctx, line); err != nil {
				log.Printf("pipeline: failed to seed stage 0: %v", err)
				return
			}
		}
		if err := first.WriteLine(ctx, protocol.Sentinel); err != nil && !errors.Is(err, channel.ErrClosed) {
			log.Printf("pipeline: failed to close stage 0 input: %v", err)
		}
	}()

	// One relay per stage boundary: forward each emitted line downstream;
	// when the upstream stream ends, pass the sentinel on and stop.
	for i := 0; i < len(s.handles)-1; i++ {
		go s.relay(ctx, i)
	}

	out := make(chan string)
	go s.collect(ctx, span, out)
	return out, nil
}

func (s *Service) relay(ctx context.Context, boundary int) {
	upstream := s.handles[boundary]
	downstream := s.handles[boundary+1]
	for {
		line, err := upstream.ReadLine(ctx)
		if err != nil {
			if !errors.Is(err, channel.ErrClosed) {
				log.Printf("pipeline: stage %d read failure: %v", boundary, err)
			}
			if wErr := downstream.WriteLine(ctx, protocol.Sentinel); wErr != nil && !errors.Is(wErr, channel.ErrClosed) {
				log.Printf("pipeline: stage %d close propagation failure: %v", boundary+1, wErr)
			}
			s.finishStage(boundary)
			return
		}
		if err := downstream.WriteLine(ctx, line); err != nil {
			log.Printf("pipeline: stage %d write failure: %v", boundary+1, err)
			s.finishStage(boundary)
			return
		}
	}
}

func (s *Service) collect(ctx context.Context, span *tracing.Span, out chan<- string) {
	defer close(out)
	last := len(s.handles) - 1
	for {
		line, err := s.handles[last].ReadLine(ctx)
		if err != nil {
			if !errors.Is(err, channel.ErrClosed) {
				log.Printf("pipeline: final stage read failure: %v", err)
				tracing.EndSpan(span, err)
			} else {
				tracing.EndSpan(span, nil)
			}
			s.finishStage(last)
			return
		}
		select {
		case out <- line:
		case <-ctx.Done():
			tracing.EndSpan(span, ctx.Err())
			return
		}
	}
}

func (s *Service) finishStage(index int) {
	s.workers[index].ForceTerminate()
}

// Close waits for the stage workers to exit and releases their channels.
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	for i, handle := range s.handles {
		if s.workers[i].State() != worker.StateTerminated {
			_ = handle.Kill()
			s.workers[i].ForceTerminate()
		}
		if err := handle.Wait(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := handle.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Workers exposes the stage worker records.
func (s *Service) Workers() []*worker.Worker {
	return s.workers
}
