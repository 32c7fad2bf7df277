package initialization_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/prosimlab/flowprop/initialization"
	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/solver"
)

// fakeState is a minimal state block: two state variables, one derived
// variable with its defining constraint, and a sum relation owned only by
// internally-defined states.
type fakeState struct {
	*model.Block

	stateVars []*model.Variable
	derived   *model.Variable
	sum       *model.Constraint
	defined   bool
}

func newFakeState(name string, defined bool) *fakeState {
	s := &fakeState{
		Block:   model.NewBlock(name),
		defined: defined,
	}

	x1 := s.DeclareVariable("x1", model.VarSpec{Initial: 0.5, Upper: 1})
	x2 := s.DeclareVariable("x2", model.VarSpec{Initial: 0.5, Upper: 1})
	s.stateVars = []*model.Variable{x1, x2}

	s.derived = s.DeclareVariable("total", model.VarSpec{Upper: 2})
	s.DeclareConstraint("total_eqn",
		[]*model.Variable{s.derived, x1, x2},
		func() float64 {
			return s.derived.Value() - x1.Value() - x2.Value()
		})

	if !defined {
		s.sum = s.DeclareConstraint("sum",
			[]*model.Variable{x1, x2},
			func() float64 { return x1.Value() + x2.Value() - 1 })
	}

	return s
}

func (s *fakeState) ModelBlock() *model.Block { return s.Block }

func (s *fakeState) StateVariables() []*model.Variable { return s.stateVars }

func (s *fakeState) ConsistencyConstraint() *model.Constraint { return s.sum }

func (s *fakeState) DefinedState() bool { return s.defined }

var _ = Describe("Initialize", func() {
	var (
		mockCtrl *gomock.Controller
		sol      *MockSolver
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sol = NewMockSolver(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should never own a consistency constraint on a defined state", func() {
		blk := newFakeState("inlet", true)

		Expect(blk.ConsistencyConstraint()).To(BeNil())

		sol.EXPECT().Solve(gomock.Any()).
			Return(solver.NewResult(solver.Optimal, 1, 0), nil)

		_, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{Solver: sol})

		Expect(err).ToNot(HaveOccurred())
	})

	It("should deactivate the consistency constraint and be square", func() {
		blk := newFakeState("internal", false)

		sol.EXPECT().Solve(gomock.Any()).
			DoAndReturn(func(system *model.IndexedBlock) (solver.Result, error) {
				Expect(blk.sum.IsActive()).To(BeFalse())
				Expect(model.DegreesOfFreedom(system)).To(Equal(0))
				return solver.NewResult(solver.Optimal, 1, 0), nil
			})

		flags, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{HoldState: true, Solver: sol})

		Expect(err).ToNot(HaveOccurred())
		Expect(flags).ToNot(BeNil())
		Expect(blk.sum.IsActive()).To(BeFalse())

		Expect(initialization.Release(flags)).To(Succeed())
		Expect(blk.sum.IsActive()).To(BeTrue())
	})

	It("should fail with a PreconditionError when not square", func() {
		blk := newFakeState("internal", false)
		blk.DeclareVariable("orphan", model.VarSpec{})

		flags, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{Solver: sol})

		Expect(flags).To(BeNil())

		var precondition *initialization.PreconditionError
		Expect(errors.As(err, &precondition)).To(BeTrue())
		Expect(precondition.Block).To(Equal("internal"))
		Expect(precondition.DegreesOfFreedom).To(Equal(1))
	})

	It("should fix state variables from state args with initial fallback", func() {
		blk := newFakeState("internal", false)

		sol.EXPECT().Solve(gomock.Any()).
			DoAndReturn(func(_ *model.IndexedBlock) (solver.Result, error) {
				Expect(blk.stateVars[0].IsFixed()).To(BeTrue())
				Expect(blk.stateVars[0].Value()).To(Equal(0.3))
				Expect(blk.stateVars[1].IsFixed()).To(BeTrue())
				Expect(blk.stateVars[1].Value()).To(Equal(0.5), "fallback to initial")
				return solver.NewResult(solver.Optimal, 1, 0), nil
			})

		_, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{
				StateArgs: map[string]float64{"x1": 0.3},
				Solver:    sol,
			})

		Expect(err).ToNot(HaveOccurred())
	})

	It("should restore the exact pre-initialization state on release", func() {
		blk := newFakeState("internal", false)
		blk.stateVars[0].FixAt(0.7)
		blk.stateVars[1].SetValue(0.2)

		sol.EXPECT().Solve(gomock.Any()).
			Return(solver.NewResult(solver.Optimal, 1, 0), nil)

		_, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{
				StateArgs: map[string]float64{"x1": 0.1, "x2": 0.9},
				Solver:    sol,
			})

		Expect(err).ToNot(HaveOccurred())

		Expect(blk.stateVars[0].IsFixed()).To(BeTrue())
		Expect(blk.stateVars[0].Value()).To(Equal(0.7))
		Expect(blk.stateVars[1].IsFixed()).To(BeFalse())
		Expect(blk.stateVars[1].Value()).To(Equal(0.2))
		Expect(blk.sum.IsActive()).To(BeTrue())
	})

	It("should hold the state when asked and release it later", func() {
		blk := newFakeState("internal", false)

		sol.EXPECT().Solve(gomock.Any()).
			Return(solver.NewResult(solver.Optimal, 1, 0), nil)

		flags, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{HoldState: true, Solver: sol})

		Expect(err).ToNot(HaveOccurred())
		Expect(flags).ToNot(BeNil())
		Expect(blk.stateVars[0].IsFixed()).To(BeTrue())
		Expect(blk.stateVars[1].IsFixed()).To(BeTrue())

		Expect(initialization.Release(flags)).To(Succeed())
		Expect(blk.stateVars[0].IsFixed()).To(BeFalse())
		Expect(blk.stateVars[1].IsFixed()).To(BeFalse())
	})

	It("should error when releasing the same flags twice", func() {
		blk := newFakeState("internal", false)

		sol.EXPECT().Solve(gomock.Any()).
			Return(solver.NewResult(solver.Optimal, 1, 0), nil)

		flags, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{HoldState: true, Solver: sol})
		Expect(err).ToNot(HaveOccurred())

		Expect(initialization.Release(flags)).To(Succeed())
		Expect(initialization.Release(flags)).ToNot(Succeed())
	})

	It("should skip the solve when nothing is free", func() {
		blk := newFakeState("inlet", true)
		blk.derived.Fix()
		blk.Constraint("total_eqn").Deactivate()

		// no Solve expectation: the solver must not be consulted
		flags, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{HoldState: true, Solver: sol})

		Expect(err).ToNot(HaveOccurred())
		Expect(initialization.Release(flags)).To(Succeed())
	})

	It("should swallow solver failure and complete", func() {
		blk := newFakeState("internal", false)

		sol.EXPECT().Solve(gomock.Any()).
			Return(solver.NewResult(solver.Failed, 3, 1.5),
				errors.New("line search failed"))

		flags, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{HoldState: true, Solver: sol})

		Expect(err).ToNot(HaveOccurred(), "solver trouble must not propagate")
		Expect(flags).ToNot(BeNil())
		Expect(initialization.Release(flags)).To(Succeed())
	})

	It("should pass through without touching fixed variables when told", func() {
		blk := newFakeState("inlet", true)
		for _, v := range blk.StateVariables() {
			v.FixAt(0.4)
		}

		sol.EXPECT().Solve(gomock.Any()).
			Return(solver.NewResult(solver.Optimal, 1, 0), nil)

		_, err := initialization.Initialize(
			[]initialization.StateBlock{blk},
			initialization.Config{VarsAlreadyFixed: true, Solver: sol})

		Expect(err).ToNot(HaveOccurred())
		Expect(blk.stateVars[0].IsFixed()).To(BeTrue(),
			"pass-through must not record or restore anything")
		Expect(blk.stateVars[0].Value()).To(Equal(0.4))
	})
})
