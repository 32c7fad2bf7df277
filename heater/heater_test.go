package heater_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prosimlab/flowprop/heater"
	"github.com/prosimlab/flowprop/initialization"
	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/solver/substitution"
	"github.com/prosimlab/flowprop/thermo"
)

var inletFractions = map[string]float64{
	"benzene":  0.1,
	"toluene":  0.4,
	"hydrogen": 0.4,
	"methane":  0.1,
	"diphenyl": 0.0,
}

func buildHeater() *heater.Comp {
	params := thermo.MakeBuilder().
		WithHDAComponents().
		Build("hda_thermo")

	return heater.MakeBuilder().
		WithParams(params).
		WithSolver(substitution.New()).
		Build("H101")
}

func fixInlet(h *heater.Comp) {
	h.Inlet().FlowMol.FixAt(100)
	h.Inlet().Temperature.FixAt(500)
	h.Inlet().Pressure.FixAt(350000)
	for j, x := range inletFractions {
		h.Inlet().MoleFrac[j].FixAt(x)
	}
}

var _ = Describe("Comp", func() {
	var h *heater.Comp

	BeforeEach(func() {
		h = buildHeater()
	})

	It("should have nine degrees of freedom before fixing", func() {
		Expect(model.DegreesOfFreedom(h.System())).To(Equal(9))
	})

	It("should be square after fixing the boundary state and the duty",
		func() {
			fixInlet(h)
			h.HeatDuty.FixAt(1e6)

			Expect(model.DegreesOfFreedom(h.System())).To(Equal(0))
		})

	It("should leave the inlet without a consistency constraint", func() {
		Expect(h.Inlet().ConsistencyConstraint()).To(BeNil())
		Expect(h.Outlet().ConsistencyConstraint()).ToNot(BeNil())
	})

	It("should fail initialization with a PreconditionError when the duty "+
		"is left free", func() {
		fixInlet(h)

		err := h.Initialize()

		var precondition *initialization.PreconditionError
		Expect(errors.As(err, &precondition)).To(BeTrue())
		Expect(precondition.DegreesOfFreedom).To(Equal(1))
	})

	It("should initialize and solve the heated outlet", func() {
		fixInlet(h)
		h.HeatDuty.FixAt(1e6)

		Expect(h.Initialize()).To(Succeed())

		out := h.Outlet()
		Expect(out.FlowMol.Value()).To(BeNumerically("~", 100, 1e-3))
		Expect(out.Pressure.Value()).To(BeNumerically("~", 350000, 1e-3))

		for j, x := range inletFractions {
			Expect(out.MoleFrac[j].Value()).To(
				BeNumerically("~", x, 1e-6))
		}

		// 1 MW over 100 mol/s of this mixture is roughly a 100 K rise
		Expect(out.Temperature.Value()).To(BeNumerically(">", 550))
		Expect(out.Temperature.Value()).To(BeNumerically("<", 650))

		balance := out.FlowMol.Value()*out.EnthMol.Value() -
			h.Inlet().FlowMol.Value()*h.Inlet().EnthMol.Value() -
			h.HeatDuty.Value()
		Expect(math.Abs(balance)).To(BeNumerically("<", 1))

		// inlet stays exactly as the caller fixed it
		Expect(h.Inlet().FlowMol.IsFixed()).To(BeTrue())
		Expect(h.Inlet().FlowMol.Value()).To(Equal(100.0))
	})

	It("should keep the outlet at the inlet state with zero duty", func() {
		fixInlet(h)
		h.HeatDuty.FixAt(0)

		Expect(h.Initialize()).To(Succeed())

		Expect(h.Outlet().Temperature.Value()).To(
			BeNumerically("~", 500, 1e-3))
	})
})
