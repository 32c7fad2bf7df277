// Package initialization implements the fix/solve/restore protocol that
// makes a collection of property blocks well-posed before a solve, and
// returns them to their prior state afterward.
//
// The protocol walks a strict sequence: state variables are fixed to
// caller-supplied values, consistency constraints of internally-defined
// states are deactivated, degrees of freedom are checked (zero, or the
// initialization aborts), the aggregate system is solved in one batch, and
// the prior fixed/free status is restored. A failed solve is deliberately
// not fatal: it is logged and initialization completes, so callers that care
// must inspect the resulting values themselves.
package initialization

import (
	"errors"

	"github.com/prosimlab/flowprop/logger"
	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/solver"
)

// Hook positions invoked on each block as the protocol advances.
var (
	HookPosPrepare = &model.HookPos{Name: "InitializationPrepare"}
	HookPosSolve   = &model.HookPos{Name: "InitializationSolve"}
	HookPosRelease = &model.HookPos{Name: "InitializationRelease"}
)

// A StateBlock is a property block that participates in the initialization
// protocol.
type StateBlock interface {
	model.Named
	model.Hookable

	// InvokeHook triggers the block's registered hooks.
	InvokeHook(ctx model.HookCtx)

	// ModelBlock returns the underlying algebraic block.
	ModelBlock() *model.Block

	// StateVariables returns the named physical state quantities, in a
	// stable order.
	StateVariables() []*model.Variable

	// ConsistencyConstraint returns the mole-fraction sum relation, or nil
	// when the state is externally defined and no such constraint exists.
	ConsistencyConstraint() *model.Constraint

	// DefinedState reports whether the state is externally defined (a
	// boundary or inlet state).
	DefinedState() bool
}

// Config controls one initialization run.
type Config struct {
	// StateArgs supplies initial state values keyed by variable name.
	// Variables without an entry fall back to their declared initial
	// value.
	StateArgs map[string]float64

	// VarsAlreadyFixed skips the fixing step entirely; the caller has
	// already pinned the state.
	VarsAlreadyFixed bool

	// HoldState keeps the state fixed after the solve and returns flags
	// for a later Release.
	HoldState bool

	// Solver performs the batch solve. It is only consulted when free
	// variables remain after fixing.
	Solver solver.Solver
}

// Initialize runs the protocol over the given sub-blocks as one aggregate
// system. When cfg.HoldState is set the returned flags are non-nil and must
// be passed to Release later; otherwise the state is released before
// returning and the flags are nil.
//
// The only fatal outcome is a *PreconditionError: a sub-block whose degrees
// of freedom are not zero after fixing. Solver trouble is logged and
// swallowed.
func Initialize(blocks []StateBlock, cfg Config) (*Flags, error) {
	flags := &Flags{blocks: blocks}

	if err := prepare(blocks, cfg, flags); err != nil {
		return nil, err
	}

	result := solve(blocks, cfg)

	for _, blk := range blocks {
		blk.InvokeHook(model.HookCtx{
			Domain: blk,
			Pos:    HookPosSolve,
			Item:   blk.Name(),
			Detail: result,
		})
	}

	if cfg.HoldState {
		return flags, nil
	}

	if err := Release(flags); err != nil {
		return nil, err
	}

	return nil, nil
}

func prepare(blocks []StateBlock, cfg Config, flags *Flags) error {
	for _, blk := range blocks {
		log := logger.For(blk.Name())

		if !cfg.VarsAlreadyFixed {
			for _, v := range blk.StateVariables() {
				flags.recordVariable(v)

				value, ok := cfg.StateArgs[v.Name()]
				if !ok {
					value = v.Initial()
				}

				v.FixAt(value)
			}
		}

		if !blk.DefinedState() {
			if c := blk.ConsistencyConstraint(); c != nil && c.IsActive() {
				c.Deactivate()
				flags.deactivated = append(flags.deactivated, c)
			}
		}

		dof := model.DegreesOfFreedom(blk.ModelBlock())
		if dof != 0 {
			return &PreconditionError{
				Block:            blk.Name(),
				DegreesOfFreedom: dof,
			}
		}

		log.Debug().Msg("state variables fixed, block is square")

		blk.InvokeHook(model.HookCtx{
			Domain: blk,
			Pos:    HookPosPrepare,
			Item:   blk.Name(),
		})
	}

	return nil
}

// solve batch-solves the aggregate system. The free-variable count is taken
// after fixing, over the unfixed variables only; zero free variables means
// there is nothing to solve.
func solve(blocks []StateBlock, cfg Config) solver.Result {
	system := model.NewIndexedBlock("initialization")
	for _, blk := range blocks {
		system.Add(blk.ModelBlock())
	}

	log := logger.For(system.Name())

	if len(system.FreeVariables()) == 0 {
		log.Info().Msg("state already determined, skipping solve")
		return solver.NewResult(solver.Skipped, 0, 0)
	}

	if cfg.Solver == nil {
		log.Info().Msg("no solver provided, initialization is not optimal")
		return solver.NewResult(solver.Failed, 0, 0)
	}

	result, err := cfg.Solver.Solve(system)
	if err != nil {
		log.Info().Err(err).Msg("initialization solve is not optimal")
		return result
	}

	log.Debug().
		Stringer("condition", result.Condition()).
		Int("iterations", result.Iterations()).
		Msg("initialization solve finished")

	return result
}

// Release reactivates the consistency constraints deactivated during
// prepare and restores every recorded state variable to its pre-prepare
// fixed/free status and value. Flags are consumed: a second Release of the
// same flags is an error.
func Release(flags *Flags) error {
	if flags == nil {
		return errors.New("nil state flags")
	}

	if flags.released {
		return errors.New("state flags already released")
	}

	flags.released = true

	for _, c := range flags.deactivated {
		c.Activate()
	}

	for _, e := range flags.entries {
		e.v.SetValue(e.value)
		if e.wasFixed {
			e.v.Fix()
		} else {
			e.v.Unfix()
		}
	}

	for _, blk := range flags.blocks {
		log := logger.For(blk.Name())
		log.Info().Msg("state released")

		blk.InvokeHook(model.HookCtx{
			Domain: blk,
			Pos:    HookPosRelease,
			Item:   blk.Name(),
		})
	}

	return nil
}
