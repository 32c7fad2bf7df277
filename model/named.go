// Package model provides the declaration surface for algebraic process
// models: named variables, parameters, and constraints grouped into blocks
// that can be aggregated and handed to a solver.
package model

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NamedBase is a base implementation of Named.
type NamedBase struct {
	name string
}

// MakeNamedBase creates a new NamedBase.
func MakeNamedBase(name string) NamedBase {
	return NamedBase{name: name}
}

// Name returns the name of the object.
func (b *NamedBase) Name() string {
	return b.name
}
