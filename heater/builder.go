package heater

import (
	"github.com/prosimlab/flowprop/solver"
	"github.com/prosimlab/flowprop/thermo"
)

// Builder can help building heaters.
type Builder struct {
	params *thermo.Params
	solver solver.Solver
}

// MakeBuilder creates a builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithParams sets the thermo property package the heater states use.
func (b Builder) WithParams(p *thermo.Params) Builder {
	b.params = p
	return b
}

// WithSolver sets the solver used for initialization and the unit solve.
func (b Builder) WithSolver(s solver.Solver) Builder {
	b.solver = s
	return b
}

// Build creates the heater with its inlet and outlet state blocks and
// balance constraints.
func (b Builder) Build(name string) *Comp {
	if b.params == nil {
		panic("heater builder needs a thermo parameter block")
	}

	return newComp(name, b.params, b.solver)
}
