package model

// A Parameter is a named physical constant. It is set when the block is
// built and never mutated afterward.
type Parameter struct {
	NamedBase

	value float64
	unit  string
}

func newParameter(name string, value float64, unit string) *Parameter {
	return &Parameter{
		NamedBase: MakeNamedBase(name),
		value:     value,
		unit:      unit,
	}
}

// Value returns the value of the parameter.
func (p *Parameter) Value() float64 {
	return p.value
}

// Unit returns the physical unit label of the parameter.
func (p *Parameter) Unit() string {
	return p.unit
}
