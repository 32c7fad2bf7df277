// Package substitution provides a successive-substitution solver for the
// block systems that property packages produce. Each active constraint with
// a single remaining unknown is solved for that unknown by a bounded secant
// search; passes repeat until the system closes. When no constraint has a
// single unknown, one variable is torn and the loop is closed with an outer
// secant on the leftover constraint. Systems that need more than one tear
// variable are beyond this solver and end with a failed condition.
package substitution

import (
	"errors"
	"fmt"
	"math"

	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/solver"
)

// A Solver solves indexed blocks by successive substitution.
type Solver struct {
	// Tolerance is the scaled residual magnitude below which a constraint
	// counts as satisfied. The scale of each constraint is its residual
	// magnitude on entry, floored at one, so constraints over large
	// quantities are judged relative to those quantities.
	Tolerance float64

	// MaxPasses caps the number of substitution passes per propagation.
	MaxPasses int

	// SecantIterations caps the secant search per scalar equation.
	SecantIterations int
}

// New creates a solver with the default tolerances.
func New() *Solver {
	return &Solver{
		Tolerance:        1e-8,
		MaxPasses:        50,
		SecantIterations: 100,
	}
}

// Solve determines the free variables of the system. The returned result is
// Skipped when nothing is free, Optimal when every active constraint holds
// within the scaled tolerance, and Failed otherwise.
func (s *Solver) Solve(system *model.IndexedBlock) (solver.Result, error) {
	scales := s.scaleMap(system)

	if len(system.FreeVariables()) == 0 {
		return solver.NewResult(
			solver.Skipped, 0, s.maxScaledResidual(system, scales)), nil
	}

	iterations, err := s.solveSystem(system, scales)
	maxRes := s.maxScaledResidual(system, scales)

	if err != nil {
		return solver.NewResult(solver.Failed, iterations, maxRes), err
	}

	if maxRes > s.Tolerance {
		return solver.NewResult(solver.Failed, iterations, maxRes),
			fmt.Errorf("scaled residual %g above tolerance %g",
				maxRes, s.Tolerance)
	}

	return solver.NewResult(solver.Optimal, iterations, maxRes), nil
}

func (s *Solver) solveSystem(
	system *model.IndexedBlock,
	scales map[*model.Constraint]float64,
) (int, error) {
	iterations, _, undetermined := s.propagate(system, nil, scales, 0)
	if len(undetermined) == 0 {
		return iterations, nil
	}

	return s.solveWithTear(system, undetermined[0], scales, iterations)
}

// solveWithTear closes a single algebraic loop: guess the tear variable,
// propagate, and drive the leftover constraint's residual to zero.
func (s *Solver) solveWithTear(
	system *model.IndexedBlock,
	tear *model.Variable,
	scales map[*model.Constraint]float64,
	iterations int,
) (int, error) {
	threshold := s.Tolerance

	closure := func(t float64) (float64, error) {
		tear.SetValue(t)

		n, leftover, undetermined := s.propagate(system, tear, scales, iterations)
		iterations = n

		if len(undetermined) > 0 {
			return 0, fmt.Errorf(
				"system needs more than one tear variable (next: %s)",
				undetermined[0].Name())
		}

		if leftover == nil {
			return 0, errors.New("torn system has no closure constraint")
		}

		threshold = s.Tolerance * scales[leftover]

		return leftover.Residual(), nil
	}

	err := s.secantOn(tear, closure, func() float64 { return threshold })

	return iterations, err
}

// propagate runs substitution passes, solving every constraint with exactly
// one unknown, starting from the fixed variables plus the optional seed.
// It returns the first unused active constraint with no remaining unknown
// (the closure candidate) and the variables it could not determine.
func (s *Solver) propagate(
	system *model.IndexedBlock,
	seed *model.Variable,
	scales map[*model.Constraint]float64,
	iterations int,
) (int, *model.Constraint, []*model.Variable) {
	determined := make(map[*model.Variable]bool)
	if seed != nil {
		determined[seed] = true
	}

	used := make(map[*model.Constraint]bool)
	active := system.ActiveConstraints()

	for pass := 0; pass < s.MaxPasses; pass++ {
		progress := false

		for _, c := range active {
			if used[c] {
				continue
			}

			unknowns := s.unknowns(c, determined)
			if len(unknowns) != 1 {
				continue
			}

			v := unknowns[0]
			iterations += s.solveScalar(c, v, s.Tolerance*scales[c])
			determined[v] = true
			used[c] = true
			progress = true
		}

		if !progress {
			break
		}
	}

	var leftover *model.Constraint
	for _, c := range active {
		if !used[c] && len(s.unknowns(c, determined)) == 0 {
			leftover = c
			break
		}
	}

	var undetermined []*model.Variable
	for _, v := range system.FreeVariables() {
		if !determined[v] {
			undetermined = append(undetermined, v)
		}
	}

	return iterations, leftover, undetermined
}

func (s *Solver) unknowns(
	c *model.Constraint,
	determined map[*model.Variable]bool,
) []*model.Variable {
	var unknowns []*model.Variable
	for _, v := range c.FreeVariables() {
		if !determined[v] {
			unknowns = append(unknowns, v)
		}
	}

	return unknowns
}

// solveScalar drives constraint c's residual to zero by varying v. Errors
// are swallowed here: a non-converged scalar leaves its residual standing,
// which the caller detects through the final residual check.
func (s *Solver) solveScalar(
	c *model.Constraint,
	v *model.Variable,
	threshold float64,
) int {
	iterations := 0
	f := func(x float64) (float64, error) {
		v.SetValue(x)
		iterations++
		return c.Residual(), nil
	}

	_ = s.secantOn(v, f, func() float64 { return threshold })

	return iterations
}

func (s *Solver) secantOn(
	v *model.Variable,
	f func(float64) (float64, error),
	threshold func() float64,
) error {
	clamp := func(x float64) float64 {
		lower, upper := v.Bounds()
		if lower == 0 && upper == 0 {
			return x
		}
		return math.Min(math.Max(x, lower), upper)
	}

	x0 := v.Value()
	f0, err := f(x0)
	if err != nil {
		return err
	}

	if math.Abs(f0) <= threshold() {
		return nil
	}

	x1 := clamp(x0 + math.Max(math.Abs(x0), 1)*1e-4)
	if x1 == x0 {
		x1 = clamp(x0 - math.Max(math.Abs(x0), 1)*1e-4)
	}

	growth := 2.0

	for i := 0; i < s.SecantIterations; i++ {
		f1, err := f(x1)
		if err != nil {
			return err
		}

		if math.Abs(f1) <= threshold() {
			return nil
		}

		if f1 == f0 {
			// A flat stretch, typically because dependent solves are
			// clamped at a variable bound. Expand the step until the
			// residual responds; a stall is only fatal once both
			// directions are exhausted.
			step := x1 - x0
			if step == 0 {
				step = math.Max(math.Abs(x1), 1) * 1e-4
			}

			x2 := clamp(x1 + growth*step)
			if x2 == x1 {
				x2 = clamp(x1 - growth*step)
			}
			if x2 == x1 {
				return fmt.Errorf("secant stalled on %s at %g", v.Name(), x1)
			}

			growth *= 2
			x0, f0 = x1, f1
			x1 = x2

			continue
		}

		growth = 2

		x2 := clamp(x1 - f1*(x1-x0)/(f1-f0))
		x0, f0 = x1, f1
		x1 = x2
	}

	return fmt.Errorf("secant did not converge on %s", v.Name())
}

// scaleMap snapshots each active constraint's residual magnitude on entry,
// floored at one.
func (s *Solver) scaleMap(
	system *model.IndexedBlock,
) map[*model.Constraint]float64 {
	scales := make(map[*model.Constraint]float64)
	for _, c := range system.ActiveConstraints() {
		scales[c] = math.Max(1, math.Abs(c.Residual()))
	}

	return scales
}

func (s *Solver) maxScaledResidual(
	system *model.IndexedBlock,
	scales map[*model.Constraint]float64,
) float64 {
	maxRes := 0.0
	for _, c := range system.ActiveConstraints() {
		scale := scales[c]
		if scale == 0 {
			scale = 1
		}

		if r := math.Abs(c.Residual()) / scale; r > maxRes {
			maxRes = r
		}
	}

	return maxRes
}
