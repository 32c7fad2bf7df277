package datarecording

import (
	"context"

	"github.com/prosimlab/flowprop/initialization"
	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/solver"
)

// initializationTable is the table the recorder writes and the log reads.
const initializationTable = "initialization_log"

// InitializationRecord is one row of the initialization log. A row is
// written every time a hooked block passes through an initialization
// stage. Solver fields are zero for stages that do not solve.
type InitializationRecord struct {
	Block       string
	Stage       string
	Condition   string
	Iterations  int
	MaxResidual float64
}

// An InitializationRecorder is a hook that logs the initialization
// stages of the blocks it is attached to into a DataRecorder.
type InitializationRecorder struct {
	recorder  DataRecorder
	tableName string
}

// NewInitializationRecorder creates an InitializationRecorder that
// writes into the given DataRecorder, creating its table.
func NewInitializationRecorder(recorder DataRecorder) *InitializationRecorder {
	r := &InitializationRecorder{
		recorder:  recorder,
		tableName: initializationTable,
	}

	r.recorder.CreateTable(r.tableName, InitializationRecord{})

	return r
}

// AttachTo registers the recorder on a block.
func (r *InitializationRecorder) AttachTo(blk model.Hookable) {
	blk.AcceptHook(r)
}

// Func writes a record for every initialization stage hook.
func (r *InitializationRecorder) Func(ctx model.HookCtx) {
	switch ctx.Pos {
	case initialization.HookPosPrepare,
		initialization.HookPosSolve,
		initialization.HookPosRelease:
	default:
		return
	}

	rec := InitializationRecord{
		Stage: ctx.Pos.Name,
	}

	if name, ok := ctx.Item.(string); ok {
		rec.Block = name
	}

	if result, ok := ctx.Detail.(solver.Result); ok {
		rec.Condition = result.Condition().String()
		rec.Iterations = result.Iterations()
		rec.MaxResidual = result.MaxResidual()
	}

	r.recorder.InsertData(r.tableName, rec)
}

// An InitializationLog reads recorded initialization rows back as typed
// records.
type InitializationLog struct {
	reader DataReader
}

// NewInitializationLog maps the initialization table on the given reader.
func NewInitializationLog(reader DataReader) *InitializationLog {
	reader.MapTable(initializationTable, InitializationRecord{})

	return &InitializationLog{reader: reader}
}

// Records returns the recorded rows matching params, oldest first unless
// params order otherwise.
func (l *InitializationLog) Records(
	ctx context.Context,
	params QueryParams,
) ([]InitializationRecord, int, error) {
	raw, total, err := l.reader.Query(ctx, initializationTable, params)
	if err != nil {
		return nil, 0, err
	}

	records := make([]InitializationRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, *r.(*InitializationRecord))
	}

	return records, total, nil
}

// FailedSolves returns the solve-stage rows that did not end optimal.
func (l *InitializationLog) FailedSolves(
	ctx context.Context,
) ([]InitializationRecord, error) {
	records, _, err := l.Records(ctx, QueryParams{
		Where: "Stage = ? AND Condition != ?",
		Args: []any{
			initialization.HookPosSolve.Name,
			solver.Optimal.String(),
		},
	})

	return records, err
}
