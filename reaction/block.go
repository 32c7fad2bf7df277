package reaction

import (
	"math"

	"github.com/prosimlab/flowprop/initialization"
	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/thermo"
)

// A Block holds the reaction variables and constraints for one thermo
// state: a rate constant and a rate per kinetic reaction, and one
// equilibrium constraint per equilibrium reaction.
//
// Equilibrium constraints are built deactivated. They relate state
// variables only, so they are only well-posed inside a unit that leaves a
// matching composition unknown; such a unit activates them.
type Block struct {
	*model.Block

	params *Params
	state  *thermo.State

	RateConstant map[string]*model.Variable
	Rate         map[string]*model.Variable

	equilibrium map[string]*model.Constraint
}

// NewBlock creates a reaction block over a thermo state.
func (p *Params) NewBlock(name string, state *thermo.State) *Block {
	b := &Block{
		Block:        model.NewBlock(name),
		params:       p,
		state:        state,
		RateConstant: make(map[string]*model.Variable),
		Rate:         make(map[string]*model.Variable),
		equilibrium:  make(map[string]*model.Constraint),
	}

	for _, r := range p.kinetic {
		b.buildKinetics(r)
	}

	for _, r := range p.equilibrium {
		b.buildEquilibrium(r)
	}

	return b
}

// buildKinetics declares the Arrhenius rate constant and the rate equation
// of one kinetic reaction. The rate law is second order in the reactant
// concentrations and written multiplied through by (R T)^2:
//
//	rate * (R T)^2 == k * x_toluene * P * x_hydrogen * P
func (b *Block) buildKinetics(r KineticReaction) {
	k := b.DeclareVariable("k["+r.Name+"]", model.VarSpec{
		Lower: 0,
		Upper: 1e20,
		Unit:  "m^3/(mol s)",
	})
	b.RateConstant[r.Name] = k

	rate := b.DeclareVariable("rate["+r.Name+"]", model.VarSpec{
		Lower: 0,
		Upper: 1e20,
		Unit:  "mol/(m^3 s)",
	})
	b.Rate[r.Name] = rate

	T := b.state.Temperature

	b.DeclareConstraint("arrhenius["+r.Name+"]",
		[]*model.Variable{k, T},
		func() float64 {
			return k.Value() - r.PreExponential*
				math.Exp(-r.ActivationEnergy/
					(thermo.GasConstant*T.Value()))
		})

	xTol := b.state.MoleFrac["toluene"]
	xH2 := b.state.MoleFrac["hydrogen"]
	P := b.state.Pressure

	b.DeclareConstraint("rate_eqn["+r.Name+"]",
		[]*model.Variable{rate, k, xTol, xH2, T, P},
		func() float64 {
			rt := thermo.GasConstant * T.Value()
			return rate.Value()*rt*rt -
				k.Value()*xTol.Value()*P.Value()*xH2.Value()*P.Value()
		})
}

// buildEquilibrium declares one equilibrium constraint, rearranged so no
// mole fraction ever divides:
//
//	k_eq * x_benzene * P == x_diphenyl * x_hydrogen * P^2
func (b *Block) buildEquilibrium(r EquilibriumReaction) {
	xB := b.state.MoleFrac["benzene"]
	xD := b.state.MoleFrac["diphenyl"]
	xH := b.state.MoleFrac["hydrogen"]
	P := b.state.Pressure

	c := b.DeclareConstraint("equilibrium["+r.Name+"]",
		[]*model.Variable{xB, xD, xH, P},
		func() float64 {
			return r.Keq*xB.Value()*P.Value() -
				xD.Value()*xH.Value()*P.Value()*P.Value()
		})
	c.Deactivate()

	b.equilibrium[r.Name] = c
}

// EquilibriumConstraint returns the constraint of an equilibrium reaction
// so a unit model can activate it.
func (b *Block) EquilibriumConstraint(name string) *model.Constraint {
	c, ok := b.equilibrium[name]
	if !ok {
		panic("no equilibrium reaction " + name + " on block " + b.Name())
	}

	return c
}

// State returns the thermo state the block computes on.
func (b *Block) State() *thermo.State {
	return b.state
}

// ModelBlock returns the underlying algebraic block.
func (b *Block) ModelBlock() *model.Block {
	return b.Block
}

// StateVariables returns nil: a reaction block owns no physical state of
// its own; fixing belongs to the thermo state it references.
func (b *Block) StateVariables() []*model.Variable {
	return nil
}

// ConsistencyConstraint returns nil: composition consistency lives on the
// thermo state.
func (b *Block) ConsistencyConstraint() *model.Constraint {
	return nil
}

// DefinedState reports false; the block itself is never a boundary state.
func (b *Block) DefinedState() bool {
	return false
}

// Initialize runs the protocol over the thermo state and this block as one
// aggregate system.
func (b *Block) Initialize(cfg initialization.Config) (*initialization.Flags, error) {
	return initialization.Initialize(
		[]initialization.StateBlock{b.state, b}, cfg)
}

// ReleaseState releases flags returned by a held Initialize.
func (b *Block) ReleaseState(flags *initialization.Flags) error {
	return initialization.Release(flags)
}
