package initialization

import "fmt"

// A PreconditionError reports a sub-block that is not square after its state
// variables were fixed. It signals a modeling error upstream and aborts
// initialization.
type PreconditionError struct {
	Block            string
	DegreesOfFreedom int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf(
		"block %s has %d degrees of freedom after fixing state variables, expected 0",
		e.Block, e.DegreesOfFreedom)
}
