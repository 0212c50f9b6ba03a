package procio

import "fmt"

// Config is a serialisable representation of the engine configuration. It
// can be populated from JSON, YAML, environment variables, etc. The
// zero-value is useful – all nested fields inherit their package defaults.
type Config struct {
	Pool PoolConfig `json:"pool" yaml:"pool"`
}

// PoolConfig carries worker pool defaults.
type PoolConfig struct {
	WorkerCount int `json:"workers" yaml:"workers"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			WorkerCount: 5,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Pool.WorkerCount <= 0 {
		return fmt.Errorf("pool.workerCount must be > 0")
	}
	return nil
}
