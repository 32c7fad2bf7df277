package model

import (
	"fmt"
	"os"
)

// A Block is a named registry of variables, parameters, and constraints.
// Declaration methods return the declared object so callers keep explicit
// references instead of looking things up by name afterward.
type Block struct {
	HookableBase
	NamedBase

	vars       []*Variable
	varByName  map[string]*Variable
	params     []*Parameter
	paramNames map[string]*Parameter
	cons       []*Constraint
	conByName  map[string]*Constraint
}

// NewBlock creates an empty block.
func NewBlock(name string) *Block {
	b := new(Block)
	b.NamedBase = MakeNamedBase(name)
	b.varByName = make(map[string]*Variable)
	b.paramNames = make(map[string]*Parameter)
	b.conByName = make(map[string]*Constraint)

	return b
}

// DeclareVariable registers a variable on the block. Declaring the same name
// twice panics.
func (b *Block) DeclareVariable(name string, spec VarSpec) *Variable {
	if _, ok := b.varByName[name]; ok {
		panic(fmt.Sprintf(
			"variable %s already declared on block %s", name, b.Name()))
	}

	v := newVariable(name, spec)
	b.vars = append(b.vars, v)
	b.varByName[name] = v

	return v
}

// DeclareParameter registers a parameter on the block.
func (b *Block) DeclareParameter(
	name string,
	value float64,
	unit string,
) *Parameter {
	if _, ok := b.paramNames[name]; ok {
		panic(fmt.Sprintf(
			"parameter %s already declared on block %s", name, b.Name()))
	}

	p := newParameter(name, value, unit)
	b.params = append(b.params, p)
	b.paramNames[name] = p

	return p
}

// DeclareConstraint registers a constraint on the block. The variable list
// must name every variable the residual reads that a solver may determine.
func (b *Block) DeclareConstraint(
	name string,
	vars []*Variable,
	residual func() float64,
) *Constraint {
	if _, ok := b.conByName[name]; ok {
		panic(fmt.Sprintf(
			"constraint %s already declared on block %s", name, b.Name()))
	}

	c := newConstraint(name, vars, residual)
	b.cons = append(b.cons, c)
	b.conByName[name] = c

	return c
}

// Variables returns all variables declared on the block, in declaration
// order.
func (b *Block) Variables() []*Variable {
	return b.vars
}

// Parameters returns all parameters declared on the block.
func (b *Block) Parameters() []*Parameter {
	return b.params
}

// Constraints returns all constraints declared on the block.
func (b *Block) Constraints() []*Constraint {
	return b.cons
}

// Variable returns the variable with the given name.
func (b *Block) Variable(name string) *Variable {
	v, found := b.varByName[name]
	if !found {
		errMsg := fmt.Sprintf(
			"Variable %s is not available on block %s.\n", name, b.Name())
		errMsg += "Available variables include:\n"
		for _, declared := range b.vars {
			errMsg += fmt.Sprintf("\t%s\n", declared.Name())
		}
		fmt.Fprint(os.Stderr, errMsg)

		panic("variable not found")
	}

	return v
}

// Constraint returns the constraint with the given name.
func (b *Block) Constraint(name string) *Constraint {
	c, found := b.conByName[name]
	if !found {
		errMsg := fmt.Sprintf(
			"Constraint %s is not available on block %s.\n", name, b.Name())
		errMsg += "Available constraints include:\n"
		for _, declared := range b.cons {
			errMsg += fmt.Sprintf("\t%s\n", declared.Name())
		}
		fmt.Fprint(os.Stderr, errMsg)

		panic("constraint not found")
	}

	return c
}

// FreeVariables returns the unfixed variables of the block.
func (b *Block) FreeVariables() []*Variable {
	free := make([]*Variable, 0, len(b.vars))
	for _, v := range b.vars {
		if !v.IsFixed() {
			free = append(free, v)
		}
	}

	return free
}

// ActiveConstraints returns the active constraints of the block.
func (b *Block) ActiveConstraints() []*Constraint {
	active := make([]*Constraint, 0, len(b.cons))
	for _, c := range b.cons {
		if c.IsActive() {
			active = append(active, c)
		}
	}

	return active
}
