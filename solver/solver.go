// Package solver defines the surface a nonlinear solver exposes to property
// blocks: one blocking batch-solve over an aggregate indexed block, with the
// outcome queried through the result's condition.
package solver

import "github.com/prosimlab/flowprop/model"

// Condition classifies the outcome of a solve.
type Condition int

// The conditions a solve can end with.
const (
	// Optimal means every active constraint is satisfied within tolerance.
	Optimal Condition = iota

	// Failed means the solver terminated without a converged solution.
	Failed

	// Skipped means no solve was performed because no variable was free.
	Skipped
)

var conditionNames = map[Condition]string{
	Optimal: "optimal",
	Failed:  "failed",
	Skipped: "skipped",
}

func (c Condition) String() string {
	name, ok := conditionNames[c]
	if !ok {
		return "unknown"
	}

	return name
}

// A Result reports the outcome of one solve.
type Result struct {
	condition   Condition
	iterations  int
	maxResidual float64
}

// NewResult creates a result. Solver implementations use it; callers only
// read results through the accessors.
func NewResult(c Condition, iterations int, maxResidual float64) Result {
	return Result{
		condition:   c,
		iterations:  iterations,
		maxResidual: maxResidual,
	}
}

// Condition returns the outcome classification of the solve.
func (r Result) Condition() Condition {
	return r.condition
}

// Iterations returns the number of iterations the solver took.
func (r Result) Iterations() int {
	return r.iterations
}

// MaxResidual returns the largest constraint residual at termination.
func (r Result) MaxResidual() float64 {
	return r.maxResidual
}

// A Solver determines the free variables of an indexed block so that every
// active constraint holds. Solve blocks until the solver terminates.
type Solver interface {
	Solve(system *model.IndexedBlock) (Result, error)
}
