package extension

import (
	"sync"

	"github.com/viant/procio/model/types"
	"github.com/viant/x"
)

// Programs registers worker programs by name so runners can resolve an
// entrypoint at spawn time.
type Programs struct {
	types    *Types
	programs map[string]types.Program
	mux      sync.RWMutex
}

func (p *Programs) Types() *Types {
	return p.types
}

// Lookup returns a program by name, or nil when unknown.
func (p *Programs) Lookup(name string) types.Program {
	p.mux.RLock()
	defer p.mux.RUnlock()
	return p.programs[name]
}

// Register registers a program under its own name.
func (p *Programs) Register(program types.Program) {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.programs[program.Name()] = program
}

// Names returns the registered program names.
func (p *Programs) Names() []string {
	p.mux.RLock()
	defer p.mux.RUnlock()
	names := make([]string, 0, len(p.programs))
	for name := range p.programs {
		names = append(names, name)
	}
	return names
}

// NewPrograms creates a new program registry.
func NewPrograms(goTypes ...*x.Type) *Programs {
	ret := &Programs{
		types:    NewTypes(),
		programs: make(map[string]types.Program),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
