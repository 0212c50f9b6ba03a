package procio

import (
	"github.com/viant/afs/storage"
	"github.com/viant/procio/model/types"
	"github.com/viant/procio/service/meta"
	"github.com/viant/procio/service/runner"
	"github.com/viant/x"
)

// Option configures the procio service.
type Option func(s *Service)

// WithConfig sets the service configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithRunner overrides the default in-process runner, e.g. with the exec
// runner to host workers as real subprocesses.
func WithRunner(aRunner runner.Runner) Option {
	return func(s *Service) {
		s.runner = aRunner
	}
}

// WithMetaService sets a custom topology loader.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the base location topology documents are resolved
// against.
func WithMetaBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.metaBaseURL = baseURL
	}
}

// WithMetaFsOptions sets storage options for the topology loader.
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithExtensionTypes registers Go types with the extension registry.
func WithExtensionTypes(goTypes ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = append(s.extensionTypes, goTypes...)
	}
}

// WithExtensionPrograms registers custom worker programs alongside the
// built-ins.
func WithExtensionPrograms(programs ...types.Program) Option {
	return func(s *Service) {
		s.extensionPrograms = append(s.extensionPrograms, programs...)
	}
}
