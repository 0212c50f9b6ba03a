package procio

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/procio/extension"
	"github.com/viant/procio/model/types"
	"github.com/viant/procio/service/meta"
	"github.com/viant/procio/service/program/echo"
	"github.com/viant/procio/service/program/kv"
	"github.com/viant/procio/service/program/lease"
	"github.com/viant/procio/service/program/seq"
	"github.com/viant/procio/service/program/text"
	"github.com/viant/procio/service/runner"
	rmemory "github.com/viant/procio/service/runner/memory"

	"github.com/viant/x"
)

// Service is the assembly façade: it owns the program registry, the worker
// runner and the meta service, and hands out a Runtime for building pools,
// pipelines and protocol services.
type Service struct {
	config            *Config
	runtime           *Runtime
	programs          *extension.Programs
	extensionTypes    []*x.Type
	extensionPrograms []types.Program
	runner            runner.Runner
	metaService       *meta.Service
	metaBaseURL       string
	metaFsOptions     []storage.Option
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	s.programs.Register(echo.New())
	s.programs.Register(seq.New())
	s.programs.Register(text.NewUpper())
	s.programs.Register(text.NewFilter())
	s.programs.Register(kv.New())
	s.programs.Register(lease.New())
	for _, program := range s.extensionPrograms {
		s.programs.Register(program)
	}
	if s.runner == nil {
		s.runner = rmemory.New(s.programs)
	}
	s.runtime.service = s
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.programs == nil {
		s.programs = extension.NewPrograms(s.extensionTypes...)
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
}

// Programs returns the program registry.
func (s *Service) Programs() *extension.Programs {
	return s.programs
}

// Runner returns the configured worker runner.
func (s *Service) Runner() runner.Runner {
	return s.runner
}

// Runtime returns the assembly runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// RegisterProgram adds a custom worker program.
func (s *Service) RegisterProgram(programs ...types.Program) {
	for i := range programs {
		s.programs.Register(programs[i])
	}
}

// RegisterExtensionType registers a Go type for topology/config resolution.
func (s *Service) RegisterExtensionType(aType *x.Type) {
	s.programs.Types().Register(aType)
}

// New creates a procio service.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}
