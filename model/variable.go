package model

import "fmt"

// VarSpec describes a variable to be declared on a block.
type VarSpec struct {
	Initial float64
	Lower   float64
	Upper   float64
	Unit    string
}

// A Variable is a named quantity that a solver can determine, unless it is
// fixed to a known boundary value.
type Variable struct {
	NamedBase

	unit    string
	initial float64
	lower   float64
	upper   float64

	value float64
	fixed bool
}

func newVariable(name string, spec VarSpec) *Variable {
	if spec.Lower > spec.Upper {
		panic(fmt.Sprintf(
			"variable %s: lower bound %g above upper bound %g",
			name, spec.Lower, spec.Upper))
	}

	return &Variable{
		NamedBase: MakeNamedBase(name),
		unit:      spec.Unit,
		initial:   spec.Initial,
		lower:     spec.Lower,
		upper:     spec.Upper,
		value:     spec.Initial,
	}
}

// Value returns the current value of the variable.
func (v *Variable) Value() float64 {
	return v.value
}

// SetValue updates the current value of the variable. Bounds are advisory
// for the solver; setting an out-of-bounds value is allowed.
func (v *Variable) SetValue(value float64) {
	v.value = value
}

// Initial returns the declared initial value.
func (v *Variable) Initial() float64 {
	return v.initial
}

// Bounds returns the inclusive lower and upper bound of the variable.
func (v *Variable) Bounds() (lower, upper float64) {
	return v.lower, v.upper
}

// Unit returns the physical unit label of the variable.
func (v *Variable) Unit() string {
	return v.unit
}

// Fix marks the variable as a known boundary value at its current value,
// removing it from the solver's free-variable set.
func (v *Variable) Fix() {
	v.fixed = true
}

// FixAt sets the value and fixes the variable in one step.
func (v *Variable) FixAt(value float64) {
	v.value = value
	v.fixed = true
}

// Unfix lets the solver determine the variable again.
func (v *Variable) Unfix() {
	v.fixed = false
}

// IsFixed reports whether the variable is fixed.
func (v *Variable) IsFixed() bool {
	return v.fixed
}
