package model

// A Constraint is a named algebraic equality over declared variables,
// expressed as a residual that equals zero when the constraint holds.
// Constraints can be deactivated temporarily; they are never deleted.
type Constraint struct {
	NamedBase

	vars     []*Variable
	residual func() float64
	active   bool
}

func newConstraint(
	name string,
	vars []*Variable,
	residual func() float64,
) *Constraint {
	if residual == nil {
		panic("constraint " + name + " declared without a residual")
	}

	return &Constraint{
		NamedBase: MakeNamedBase(name),
		vars:      vars,
		residual:  residual,
		active:    true,
	}
}

// Variables returns the variables the constraint relates.
func (c *Constraint) Variables() []*Variable {
	return c.vars
}

// Residual evaluates the constraint residual at the current variable values.
func (c *Constraint) Residual() float64 {
	return c.residual()
}

// Activate includes the constraint in the active system.
func (c *Constraint) Activate() {
	c.active = true
}

// Deactivate excludes the constraint from the active system without
// removing it from the block.
func (c *Constraint) Deactivate() {
	c.active = false
}

// IsActive reports whether the constraint is part of the active system.
func (c *Constraint) IsActive() bool {
	return c.active
}

// FreeVariables returns the constraint's variables that are not fixed.
func (c *Constraint) FreeVariables() []*Variable {
	free := make([]*Variable, 0, len(c.vars))
	for _, v := range c.vars {
		if !v.IsFixed() {
			free = append(free, v)
		}
	}

	return free
}
