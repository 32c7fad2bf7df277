// Package thermo provides an ideal-gas vapor property package for the
// hydrodealkylation system: a parameter block carrying component constants
// and state blocks carrying the physical state plus derived properties.
package thermo

import (
	"fmt"

	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/units"
)

// GasConstant is the universal gas constant in J/(mol K).
const GasConstant = 8.314462618

// ComponentData carries the physical constants of one component. Heat
// capacity is a cubic polynomial in temperature with coefficients A-D in
// J/(mol K); Hf is the ideal-gas heat of formation at the reference
// temperature in J/mol.
type ComponentData struct {
	MW  float64 // kg/mol
	CpA float64
	CpB float64
	CpC float64
	CpD float64
	Hf  float64
}

// Params is the parameter block of the property package. It is built once
// and never mutated; state blocks are created from it.
type Params struct {
	*model.Block

	components []string
	data       map[string]ComponentData
	tRef       float64
	pRef       float64
	meta       *units.Metadata
}

// Builder builds Params blocks.
type Builder struct {
	components []string
	data       map[string]ComponentData
	tRef       float64
	pRef       float64
	unitTable  units.Table
}

// MakeBuilder creates a builder with the SI default-units table and the
// standard reference state (298.15 K, 101325 Pa).
func MakeBuilder() Builder {
	return Builder{
		data:      make(map[string]ComponentData),
		tRef:      298.15,
		pRef:      101325,
		unitTable: units.SI(),
	}
}

// WithComponent adds a component and its constants.
func (b Builder) WithComponent(name string, data ComponentData) Builder {
	if _, ok := b.data[name]; ok {
		panic("component " + name + " added twice")
	}

	b.components = append(b.components, name)
	b.data[name] = data

	return b
}

// WithHDAComponents adds the five hydrodealkylation components with their
// ideal-gas constants.
func (b Builder) WithHDAComponents() Builder {
	return b.
		WithComponent("benzene", ComponentData{
			MW: 78.1136e-3,
			CpA: -36.22, CpB: 48.475e-2, CpC: -31.57e-5, CpD: 77.62e-9,
			Hf: 82.9e3,
		}).
		WithComponent("toluene", ComponentData{
			MW: 92.1405e-3,
			CpA: -24.35, CpB: 51.25e-2, CpC: -27.65e-5, CpD: 49.11e-9,
			Hf: 50.1e3,
		}).
		WithComponent("hydrogen", ComponentData{
			MW: 2.016e-3,
			CpA: 27.14, CpB: 0.9274e-2, CpC: -1.381e-5, CpD: 7.645e-9,
			Hf: 0,
		}).
		WithComponent("methane", ComponentData{
			MW: 16.043e-3,
			CpA: 19.25, CpB: 5.213e-2, CpC: 1.197e-5, CpD: -11.32e-9,
			Hf: -75e3,
		}).
		WithComponent("diphenyl", ComponentData{
			MW: 154.212e-3,
			CpA: -97.07, CpB: 110.4e-2, CpC: -79.37e-5, CpD: 211.8e-9,
			Hf: 180.2e3,
		})
}

// WithReferenceState overrides the reference temperature and pressure.
func (b Builder) WithReferenceState(tRef, pRef float64) Builder {
	b.tRef = tRef
	b.pRef = pRef

	return b
}

// WithUnits overrides the default-units table.
func (b Builder) WithUnits(t units.Table) Builder {
	b.unitTable = t
	return b
}

// Build creates the parameter block.
func (b Builder) Build(name string) *Params {
	if len(b.components) == 0 {
		panic("parameter block needs at least one component")
	}

	p := &Params{
		Block:      model.NewBlock(name),
		components: b.components,
		data:       b.data,
		tRef:       b.tRef,
		pRef:       b.pRef,
	}

	p.DeclareParameter("temperature_ref", b.tRef, "K")
	p.DeclareParameter("pressure_ref", b.pRef, "Pa")

	for _, j := range b.components {
		d := b.data[j]
		p.DeclareParameter(fmt.Sprintf("mw[%s]", j), d.MW, "kg/mol")
		p.DeclareParameter(fmt.Sprintf("cp_A[%s]", j), d.CpA, "J/(mol K)")
		p.DeclareParameter(fmt.Sprintf("cp_B[%s]", j), d.CpB, "J/(mol K^2)")
		p.DeclareParameter(fmt.Sprintf("cp_C[%s]", j), d.CpC, "J/(mol K^3)")
		p.DeclareParameter(fmt.Sprintf("cp_D[%s]", j), d.CpD, "J/(mol K^4)")
		p.DeclareParameter(fmt.Sprintf("enth_mol_form[%s]", j), d.Hf, "J/mol")
	}

	p.meta = p.defineMetadata(b.unitTable)

	return p
}

func (p *Params) defineMetadata(t units.Table) *units.Metadata {
	meta := units.NewMetadata(t)

	meta.Add(units.PropertyMeta{Name: "flow_mol", Unit: "mol/s"})
	meta.Add(units.PropertyMeta{Name: "mole_frac_comp", Unit: ""})
	meta.Add(units.PropertyMeta{Name: "temperature", Unit: "K"})
	meta.Add(units.PropertyMeta{Name: "pressure", Unit: "Pa"})
	meta.Add(units.PropertyMeta{
		Name: "mw_comp", Method: "buildMolecularWeight", Unit: "kg/mol"})
	meta.Add(units.PropertyMeta{
		Name: "dens_mol", Method: "buildDensity", Unit: "mol/m^3"})
	meta.Add(units.PropertyMeta{
		Name: "enth_mol", Method: "buildEnthalpy", Unit: "J/mol"})

	return meta
}

// Metadata returns the supported-properties table of the package.
func (p *Params) Metadata() *units.Metadata {
	return p.meta
}

// Components returns the component names in declaration order.
func (p *Params) Components() []string {
	return p.components
}

// Component returns the constants of a component.
func (p *Params) Component(name string) ComponentData {
	d, ok := p.data[name]
	if !ok {
		panic("component " + name + " is not in parameter block " + p.Name())
	}

	return d
}

// ReferenceTemperature returns the reference temperature in K.
func (p *Params) ReferenceTemperature() float64 {
	return p.tRef
}

// ReferencePressure returns the reference pressure in Pa.
func (p *Params) ReferencePressure() float64 {
	return p.pRef
}

// EnthMolComp evaluates the ideal-gas molar enthalpy correlation of one
// component at temperature T. The polynomial is integrated heat capacity
// with reference-state subtraction, so at T equal to the reference
// temperature the result is exactly the heat of formation.
func (p *Params) EnthMolComp(component string, T float64) float64 {
	d := p.Component(component)
	tr := p.tRef

	return d.Hf +
		d.CpA*(T-tr) +
		d.CpB/2*(T*T-tr*tr) +
		d.CpC/3*(T*T*T-tr*tr*tr) +
		d.CpD/4*(T*T*T*T-tr*tr*tr*tr)
}
