package model

// A System is anything that exposes an aggregate set of free variables and
// active constraints, such as a Block or an IndexedBlock.
type System interface {
	FreeVariables() []*Variable
	ActiveConstraints() []*Constraint
}

// DegreesOfFreedom returns the number of free variables minus the number of
// active constraints of a system. A well-posed solve requires zero.
func DegreesOfFreedom(s System) int {
	return len(s.FreeVariables()) - len(s.ActiveConstraints())
}
