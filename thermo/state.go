package thermo

import (
	"fmt"

	"github.com/prosimlab/flowprop/initialization"
	"github.com/prosimlab/flowprop/model"
)

// A State is one material state of the property package: total molar flow,
// composition, temperature, and pressure, plus the derived molar density
// and molar enthalpy with their defining constraints.
//
// A state created with definedState true represents a boundary condition
// (an inlet); it never owns the mole-fraction sum constraint.
type State struct {
	*model.Block

	params       *Params
	definedState bool

	FlowMol     *model.Variable
	MoleFrac    map[string]*model.Variable
	Temperature *model.Variable
	Pressure    *model.Variable
	DensMol     *model.Variable
	EnthMol     *model.Variable

	sum *model.Constraint
}

// NewState creates a state block from the parameter block.
func (p *Params) NewState(name string, definedState bool) *State {
	s := &State{
		Block:        model.NewBlock(name),
		params:       p,
		definedState: definedState,
		MoleFrac:     make(map[string]*model.Variable),
	}

	s.FlowMol = s.DeclareVariable("flow_mol", model.VarSpec{
		Initial: 1,
		Lower:   0,
		Upper:   1e20,
		Unit:    "mol/s",
	})

	n := float64(len(p.components))
	for _, j := range p.components {
		s.MoleFrac[j] = s.DeclareVariable(
			fmt.Sprintf("mole_frac_comp[%s]", j),
			model.VarSpec{Initial: 1 / n, Lower: 0, Upper: 1})
	}

	s.Temperature = s.DeclareVariable("temperature", model.VarSpec{
		Initial: p.tRef,
		Lower:   25,
		Upper:   1200,
		Unit:    "K",
	})

	s.Pressure = s.DeclareVariable("pressure", model.VarSpec{
		Initial: p.pRef,
		Lower:   100,
		Upper:   1e10,
		Unit:    "Pa",
	})

	s.buildDensity()
	s.buildEnthalpy()

	if !definedState {
		s.sum = s.DeclareConstraint("mole_fraction_sum",
			s.moleFracVars(),
			func() float64 {
				total := 0.0
				for _, j := range s.params.components {
					total += s.MoleFrac[j].Value()
				}
				return total - 1
			})
	}

	return s
}

// buildDensity declares the ideal-gas molar density and its constraint,
// written multiplied through: dens * R * T == P.
func (s *State) buildDensity() {
	s.DensMol = s.DeclareVariable("dens_mol", model.VarSpec{
		Initial: 1,
		Lower:   0,
		Upper:   1e20,
		Unit:    "mol/m^3",
	})

	s.DeclareConstraint("ideal_gas",
		[]*model.Variable{s.DensMol, s.Temperature, s.Pressure},
		func() float64 {
			return s.DensMol.Value()*GasConstant*s.Temperature.Value() -
				s.Pressure.Value()
		})
}

// buildEnthalpy declares the mixture molar enthalpy and its constraint:
// enth_mol == sum_j x_j * h_j(T) with h_j the component correlation.
func (s *State) buildEnthalpy() {
	s.EnthMol = s.DeclareVariable("enth_mol", model.VarSpec{
		Unit: "J/mol",
	})

	vars := append([]*model.Variable{s.EnthMol, s.Temperature},
		s.moleFracVars()...)

	s.DeclareConstraint("mixture_enthalpy", vars, func() float64 {
		mix := 0.0
		T := s.Temperature.Value()
		for _, j := range s.params.components {
			mix += s.MoleFrac[j].Value() * s.params.EnthMolComp(j, T)
		}

		return s.EnthMol.Value() - mix
	})
}

func (s *State) moleFracVars() []*model.Variable {
	vars := make([]*model.Variable, 0, len(s.params.components))
	for _, j := range s.params.components {
		vars = append(vars, s.MoleFrac[j])
	}

	return vars
}

// Params returns the parameter block the state was built from.
func (s *State) Params() *Params {
	return s.params
}

// ModelBlock returns the underlying algebraic block.
func (s *State) ModelBlock() *model.Block {
	return s.Block
}

// StateVariables returns flow, composition, temperature, and pressure, in a
// stable order.
func (s *State) StateVariables() []*model.Variable {
	vars := []*model.Variable{s.FlowMol}
	vars = append(vars, s.moleFracVars()...)
	vars = append(vars, s.Temperature, s.Pressure)

	return vars
}

// ConsistencyConstraint returns the mole-fraction sum constraint, or nil
// for a defined (boundary) state.
func (s *State) ConsistencyConstraint() *model.Constraint {
	return s.sum
}

// DefinedState reports whether the state is externally defined.
func (s *State) DefinedState() bool {
	return s.definedState
}

// Initialize runs the fix/solve/restore protocol on this state block alone.
func (s *State) Initialize(cfg initialization.Config) (*initialization.Flags, error) {
	return initialization.Initialize([]initialization.StateBlock{s}, cfg)
}

// ReleaseState releases flags returned by a held Initialize.
func (s *State) ReleaseState(flags *initialization.Flags) error {
	return initialization.Release(flags)
}
