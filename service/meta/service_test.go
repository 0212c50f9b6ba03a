package meta

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/procio/service/pipeline"
)

func TestLoadTopology(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	document := `
pool:
  workers: ${env.TEST_POOL_WORKERS}
  program: echo
pipeline:
  stages:
    - name: generate
      program: seq
    - name: filter
      program: filter
      args:
        - "1"
lease:
  capacity: 4
`
	assert.NoError(t, os.Setenv("TEST_POOL_WORKERS", "3"))
	defer os.Unsetenv("TEST_POOL_WORKERS")
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "topology.yaml"), []byte(document), 0o644))

	service := New(afs.New(), dir)
	topology := &Topology{}
	assert.NoError(t, service.Load(ctx, "topology.yaml", topology))

	assert.NoError(t, topology.Validate())
	assert.EqualValues(t, 3, topology.Pool.Workers)
	assert.Equal(t, "echo", topology.Pool.Program)
	assert.Equal(t, []pipeline.StageSpec{
		{Name: "generate", Program: "seq"},
		{Name: "filter", Program: "filter", Args: []string{"1"}},
	}, topology.Pipeline.Stages)
	assert.EqualValues(t, 4, topology.Lease.Capacity)
}

func TestLoadAbsoluteURL(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	location := filepath.Join(dir, "topology.yaml")
	assert.NoError(t, os.WriteFile(location, []byte("lease:\n  capacity: 1\n"), 0o644))

	// An absolute location ignores the base URL.
	service := New(afs.New(), "/elsewhere")
	topology := &Topology{}
	assert.NoError(t, service.Load(ctx, location, topology))
	assert.EqualValues(t, 1, topology.Lease.Capacity)
}

func TestLoadMissingDocument(t *testing.T) {
	service := New(afs.New(), t.TempDir())
	assert.Error(t, service.Load(context.Background(), "absent.yaml", &Topology{}))
}

func TestTopologyValidate(t *testing.T) {
	testCases := []struct {
		name      string
		topology  *Topology
		expectErr bool
	}{
		{
			name:     "nil topology",
			topology: nil,
		},
		{
			name:     "empty topology",
			topology: &Topology{},
		},
		{
			name:      "pool without program",
			topology:  &Topology{Pool: &PoolSpec{Workers: 2}},
			expectErr: true,
		},
		{
			name:      "pool without workers",
			topology:  &Topology{Pool: &PoolSpec{Program: "echo"}},
			expectErr: true,
		},
		{
			name:      "empty pipeline",
			topology:  &Topology{Pipeline: &PipelineSpec{}},
			expectErr: true,
		},
		{
			name:      "lease without capacity",
			topology:  &Topology{Lease: &LeaseSpec{}},
			expectErr: true,
		},
		{
			name: "complete",
			topology: &Topology{
				Pool:     &PoolSpec{Workers: 1, Program: "echo"},
				Pipeline: &PipelineSpec{Stages: []pipeline.StageSpec{{Program: "seq"}}},
				Lease:    &LeaseSpec{Capacity: 1},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.topology.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
