// Package reaction provides the hydrodealkylation reaction property
// package: Arrhenius kinetics for the toluene conversion and the benzene
// coupling equilibrium, expressed as block constraints over a thermo state.
package reaction

import (
	"github.com/prosimlab/flowprop/model"
)

// A KineticReaction is a rate-governed reaction. Stoichiometry maps
// component names to signed coefficients (negative for reactants). The rate
// constant follows Arrhenius: k = A exp(-Ea / (R T)).
type KineticReaction struct {
	Name             string
	Stoichiometry    map[string]float64
	PreExponential   float64 // m^3/(mol s)
	ActivationEnergy float64 // J/mol
}

// An EquilibriumReaction is governed by an equilibrium constant on a
// partial-pressure basis.
type EquilibriumReaction struct {
	Name          string
	Stoichiometry map[string]float64
	Keq           float64 // Pa
}

// Params is the reaction parameter block.
type Params struct {
	*model.Block

	kinetic     []KineticReaction
	equilibrium []EquilibriumReaction
}

// Builder builds reaction parameter blocks.
type Builder struct {
	kinetic     []KineticReaction
	equilibrium []EquilibriumReaction
}

// MakeBuilder creates an empty builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithKineticReaction adds a rate-governed reaction.
func (b Builder) WithKineticReaction(r KineticReaction) Builder {
	b.kinetic = append(b.kinetic, r)
	return b
}

// WithEquilibriumReaction adds an equilibrium reaction.
func (b Builder) WithEquilibriumReaction(r EquilibriumReaction) Builder {
	b.equilibrium = append(b.equilibrium, r)
	return b
}

// WithHDAReactions adds the hydrodealkylation chemistry: toluene
// hydrogenolysis to benzene and methane, and the benzene coupling
// equilibrium to diphenyl.
func (b Builder) WithHDAReactions() Builder {
	return b.
		WithKineticReaction(KineticReaction{
			Name: "R1",
			Stoichiometry: map[string]float64{
				"toluene":  -1,
				"hydrogen": -1,
				"benzene":  1,
				"methane":  1,
			},
			PreExponential:   6.3e10,
			ActivationEnergy: 217.6e3,
		}).
		WithEquilibriumReaction(EquilibriumReaction{
			Name: "E1",
			Stoichiometry: map[string]float64{
				"benzene":  -2,
				"diphenyl": 1,
				"hydrogen": 1,
			},
			Keq: 10000,
		})
}

// Build creates the parameter block.
func (b Builder) Build(name string) *Params {
	p := &Params{
		Block:       model.NewBlock(name),
		kinetic:     b.kinetic,
		equilibrium: b.equilibrium,
	}

	for _, r := range b.kinetic {
		p.DeclareParameter("arrhenius_A["+r.Name+"]",
			r.PreExponential, "m^3/(mol s)")
		p.DeclareParameter("activation_energy["+r.Name+"]",
			r.ActivationEnergy, "J/mol")
	}

	for _, r := range b.equilibrium {
		p.DeclareParameter("k_eq["+r.Name+"]", r.Keq, "Pa")
	}

	return p
}

// KineticReactions returns the rate-governed reactions in declaration
// order.
func (p *Params) KineticReactions() []KineticReaction {
	return p.kinetic
}

// EquilibriumReactions returns the equilibrium reactions in declaration
// order.
func (p *Params) EquilibriumReactions() []EquilibriumReaction {
	return p.equilibrium
}
