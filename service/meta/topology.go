package meta

import (
	"fmt"

	"github.com/viant/procio/service/pipeline"
	"github.com/viant/toolbox"
	"gopkg.in/yaml.v3"
)

// Count is an int that tolerates quoted scalars, so values produced by
// ${env.KEY} expansion decode the same way as plain numbers.
type Count int

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Count) UnmarshalYAML(node *yaml.Node) error {
	value := toolbox.AsInt(node.Value)
	if value == 0 && node.Value != "0" && node.Value != "" {
		return fmt.Errorf("invalid count: %q", node.Value)
	}
	*c = Count(value)
	return nil
}

// Topology is a declarative description of the components to assemble.
type Topology struct {
	Pool     *PoolSpec     `json:"pool,omitempty" yaml:"pool,omitempty"`
	Pipeline *PipelineSpec `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	Lease    *LeaseSpec    `json:"lease,omitempty" yaml:"lease,omitempty"`
}

// PoolSpec configures a worker pool dispatcher.
type PoolSpec struct {
	Workers Count    `json:"workers" yaml:"workers"`
	Program string   `json:"program" yaml:"program"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// PipelineSpec configures a stage chain.
type PipelineSpec struct {
	Stages []pipeline.StageSpec `json:"stages" yaml:"stages"`
}

// LeaseSpec configures a resource manager.
type LeaseSpec struct {
	Capacity Count `json:"capacity" yaml:"capacity"`
}

// Validate returns the first invalid setting or nil.
func (t *Topology) Validate() error {
	if t == nil {
		return nil
	}
	if t.Pool != nil {
		if t.Pool.Workers <= 0 {
			return fmt.Errorf("pool.workers must be > 0")
		}
		if t.Pool.Program == "" {
			return fmt.Errorf("pool.program is required")
		}
	}
	if t.Pipeline != nil && len(t.Pipeline.Stages) == 0 {
		return fmt.Errorf("pipeline.stages must not be empty")
	}
	if t.Lease != nil && t.Lease.Capacity <= 0 {
		return fmt.Errorf("lease.capacity must be > 0")
	}
	return nil
}
