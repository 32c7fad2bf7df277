// Package heater provides a steady-state heater unit: one inlet state, one
// outlet state, a heat duty, and the component, energy, and pressure
// relations between them. It is the worked example for wiring property
// packages and the initialization protocol into a unit model.
package heater

import (
	"fmt"

	"github.com/prosimlab/flowprop/initialization"
	"github.com/prosimlab/flowprop/logger"
	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/solver"
	"github.com/prosimlab/flowprop/thermo"
)

// Comp is a heater unit. The inlet state is externally defined (a boundary
// state); the outlet state is internal and owns its consistency constraint.
type Comp struct {
	*model.Block

	inlet  *thermo.State
	outlet *thermo.State
	sol    solver.Solver

	HeatDuty *model.Variable
}

func newComp(name string, params *thermo.Params, sol solver.Solver) *Comp {
	c := &Comp{
		Block:  model.NewBlock(name),
		inlet:  params.NewState(name+".inlet", true),
		outlet: params.NewState(name+".outlet", false),
		sol:    sol,
	}

	c.HeatDuty = c.DeclareVariable("heat_duty", model.VarSpec{Unit: "W"})

	c.buildBalances(params)

	return c
}

func (c *Comp) buildBalances(params *thermo.Params) {
	for _, j := range params.Components() {
		xIn := c.inlet.MoleFrac[j]
		xOut := c.outlet.MoleFrac[j]

		c.DeclareConstraint(
			fmt.Sprintf("material_balance[%s]", j),
			[]*model.Variable{
				c.outlet.FlowMol, xOut, c.inlet.FlowMol, xIn,
			},
			func() float64 {
				return c.outlet.FlowMol.Value()*xOut.Value() -
					c.inlet.FlowMol.Value()*xIn.Value()
			})
	}

	c.DeclareConstraint("energy_balance",
		[]*model.Variable{
			c.outlet.FlowMol, c.outlet.EnthMol,
			c.inlet.FlowMol, c.inlet.EnthMol,
			c.HeatDuty,
		},
		func() float64 {
			return c.outlet.FlowMol.Value()*c.outlet.EnthMol.Value() -
				c.inlet.FlowMol.Value()*c.inlet.EnthMol.Value() -
				c.HeatDuty.Value()
		})

	c.DeclareConstraint("pressure_balance",
		[]*model.Variable{c.outlet.Pressure, c.inlet.Pressure},
		func() float64 {
			return c.outlet.Pressure.Value() - c.inlet.Pressure.Value()
		})
}

// Inlet returns the inlet state block.
func (c *Comp) Inlet() *thermo.State {
	return c.inlet
}

// Outlet returns the outlet state block.
func (c *Comp) Outlet() *thermo.State {
	return c.outlet
}

// System returns the aggregate indexed block of the unit: both state blocks
// plus the balance block.
func (c *Comp) System() *model.IndexedBlock {
	return model.NewIndexedBlock(c.Name(),
		c.inlet.ModelBlock(), c.outlet.ModelBlock(), c.Block)
}

// Initialize runs the state-block initialization protocol with the current
// inlet values as state arguments, then solves the full unit. The caller
// must have fixed the inlet state and the heat duty first; the unit system
// must be square or a *PreconditionError is returned.
func (c *Comp) Initialize() error {
	log := logger.For(c.Name())

	args := make(map[string]float64)
	for _, v := range c.inlet.StateVariables() {
		args[v.Name()] = v.Value()
	}

	flags, err := initialization.Initialize(
		[]initialization.StateBlock{c.inlet, c.outlet},
		initialization.Config{
			StateArgs: args,
			HoldState: true,
			Solver:    c.sol,
		})
	if err != nil {
		return err
	}

	if err := initialization.Release(flags); err != nil {
		return err
	}

	// Release restores outlet values too, so seed the outlet at the inlet
	// state as the guess for the unit solve.
	inletVars := c.inlet.StateVariables()
	for i, v := range c.outlet.StateVariables() {
		v.SetValue(inletVars[i].Value())
	}

	system := c.System()
	if dof := model.DegreesOfFreedom(system); dof != 0 {
		return &initialization.PreconditionError{
			Block:            c.Name(),
			DegreesOfFreedom: dof,
		}
	}

	result, err := c.sol.Solve(system)
	if err != nil {
		return fmt.Errorf("unit solve of %s: %w", c.Name(), err)
	}

	log.Info().
		Stringer("condition", result.Condition()).
		Int("iterations", result.Iterations()).
		Msg("heater solved")

	return nil
}
