package procio

import (
	"context"
	"strconv"

	"github.com/viant/procio/service/dispatcher"
	"github.com/viant/procio/service/meta"
	"github.com/viant/procio/service/pipeline"
	"github.com/viant/procio/service/program/kv"
	"github.com/viant/procio/service/program/lease"
)

// Runtime builds running components on top of the service's runner and
// program registry.
type Runtime struct {
	service *Service
}

// NewPool creates a worker pool dispatcher backed by the service runner.
// Options passed here may override the runner and the configured defaults.
func (r *Runtime) NewPool(options ...dispatcher.Option) (*dispatcher.Service, error) {
	defaults := []dispatcher.Option{
		dispatcher.WithRunner(r.service.runner),
		dispatcher.WithWorkers(r.service.config.Pool.WorkerCount),
	}
	return dispatcher.New(append(defaults, options...)...)
}

// NewPipeline creates a stage chain backed by the service runner.
func (r *Runtime) NewPipeline(stages ...pipeline.StageSpec) *pipeline.Service {
	return pipeline.New(r.service.runner, stages...)
}

// StartKV spawns a key/value worker and returns a connected client.
func (r *Runtime) StartKV(ctx context.Context) (*kv.Client, error) {
	handle, err := r.service.runner.Spawn(ctx, kv.Name)
	if err != nil {
		return nil, err
	}
	return kv.NewClient(handle), nil
}

// StartLeaseManager spawns a resource manager worker with the supplied
// capacity and returns a connected client. A capacity <= 0 uses the worker
// default.
func (r *Runtime) StartLeaseManager(ctx context.Context, capacity int) (*lease.Client, error) {
	var args []string
	if capacity > 0 {
		args = append(args, strconv.Itoa(capacity))
	}
	handle, err := r.service.runner.Spawn(ctx, lease.Name, args...)
	if err != nil {
		return nil, err
	}
	return lease.NewClient(handle), nil
}

// LoadTopology loads and validates a topology document.
func (r *Runtime) LoadTopology(ctx context.Context, URL string) (*meta.Topology, error) {
	topology := &meta.Topology{}
	if err := r.service.metaService.Load(ctx, URL, topology); err != nil {
		return nil, err
	}
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	return topology, nil
}

// Assembly holds the components built from a topology document.
type Assembly struct {
	Pool     *dispatcher.Service
	Pipeline *pipeline.Service
	Lease    *lease.Client
}

// Close shuts down every component the assembly holds.
func (a *Assembly) Close(ctx context.Context) error {
	var err error
	if a.Pool != nil {
		if e := a.Pool.Shutdown(ctx); e != nil {
			err = e
		}
	}
	if a.Pipeline != nil {
		if e := a.Pipeline.Close(ctx); e != nil && err == nil {
			err = e
		}
	}
	if a.Lease != nil {
		if e := a.Lease.Quit(ctx); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// BuildTopology assembles the components a topology document describes. The
// pool is started; the pipeline is built but not run.
func (r *Runtime) BuildTopology(ctx context.Context, topology *meta.Topology) (*Assembly, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	ret := &Assembly{}
	if spec := topology.Pool; spec != nil {
		pool, err := r.NewPool(
			dispatcher.WithProgram(spec.Program, spec.Args...),
			dispatcher.WithWorkers(int(spec.Workers)))
		if err != nil {
			return nil, err
		}
		if err = pool.Start(ctx); err != nil {
			return nil, err
		}
		ret.Pool = pool
	}
	if spec := topology.Pipeline; spec != nil {
		p := r.NewPipeline(spec.Stages...)
		if err := p.Build(ctx); err != nil {
			_ = ret.Close(ctx)
			return nil, err
		}
		ret.Pipeline = p
	}
	if spec := topology.Lease; spec != nil {
		client, err := r.StartLeaseManager(ctx, int(spec.Capacity))
		if err != nil {
			_ = ret.Close(ctx)
			return nil, err
		}
		ret.Lease = client
	}
	return ret, nil
}
