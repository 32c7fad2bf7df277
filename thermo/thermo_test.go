package thermo_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prosimlab/flowprop/initialization"
	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/solver/substitution"
	"github.com/prosimlab/flowprop/thermo"
	"github.com/prosimlab/flowprop/units"
)

func hdaParams() *thermo.Params {
	return thermo.MakeBuilder().
		WithHDAComponents().
		Build("hda_thermo")
}

var hdaStateArgs = map[string]float64{
	"flow_mol":                 100,
	"temperature":              500,
	"pressure":                 350000,
	"mole_frac_comp[benzene]":  0.1,
	"mole_frac_comp[toluene]":  0.4,
	"mole_frac_comp[hydrogen]": 0.4,
	"mole_frac_comp[methane]":  0.1,
	"mole_frac_comp[diphenyl]": 0.0,
}

var _ = Describe("Params", func() {
	var p *thermo.Params

	BeforeEach(func() {
		p = hdaParams()
	})

	It("should carry the five HDA components", func() {
		Expect(p.Components()).To(Equal([]string{
			"benzene", "toluene", "hydrogen", "methane", "diphenyl"}))
	})

	It("should expose property metadata with SI default units", func() {
		meta := p.Metadata()

		prop, err := meta.Require("enth_mol")
		Expect(err).ToNot(HaveOccurred())
		Expect(prop.Method).To(Equal("buildEnthalpy"))

		prop, err = meta.Require("temperature")
		Expect(err).ToNot(HaveOccurred())
		Expect(prop.Method).To(BeEmpty())

		_, err = meta.Require("entr_mol")
		Expect(errors.Is(err, units.ErrUnsupportedProperty)).To(BeTrue())

		u, err := meta.Units().Unit(units.Temperature)
		Expect(err).ToNot(HaveOccurred())
		Expect(u).To(Equal("K"))
	})

	It("should reduce every enthalpy correlation to the heat of formation "+
		"at the reference temperature", func() {
		tRef := p.ReferenceTemperature()

		for _, j := range p.Components() {
			Expect(p.EnthMolComp(j, tRef)).To(Equal(p.Component(j).Hf))
		}
	})

	It("should raise enthalpy monotonically with temperature", func() {
		for _, j := range p.Components() {
			Expect(p.EnthMolComp(j, 500)).To(
				BeNumerically(">", p.EnthMolComp(j, 400)))
		}
	})
})

var _ = Describe("State", func() {
	var p *thermo.Params

	BeforeEach(func() {
		p = hdaParams()
	})

	It("should own a sum constraint only for internal states", func() {
		inlet := p.NewState("inlet", true)
		internal := p.NewState("internal", false)

		Expect(inlet.ConsistencyConstraint()).To(BeNil())
		Expect(internal.ConsistencyConstraint()).ToNot(BeNil())
		Expect(internal.ConsistencyConstraint().IsActive()).To(BeTrue())
	})

	It("should list eight state variables for the five-component system",
		func() {
			s := p.NewState("s", true)
			// flow + 5 mole fractions + temperature + pressure
			Expect(s.StateVariables()).To(HaveLen(8))
		})

	It("should initialize and compute derived properties", func() {
		s := p.NewState("s", false)

		flags, err := s.Initialize(initialization.Config{
			StateArgs: hdaStateArgs,
			HoldState: true,
			Solver:    substitution.New(),
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(flags).ToNot(BeNil())

		// ideal gas: dens = P / (R T)
		Expect(s.DensMol.Value()).To(BeNumerically("~",
			350000/(thermo.GasConstant*500), 1e-6))

		wantEnth := 0.0
		for _, j := range p.Components() {
			wantEnth += hdaStateArgs["mole_frac_comp["+j+"]"] *
				p.EnthMolComp(j, 500)
		}
		Expect(s.EnthMol.Value()).To(BeNumerically("~", wantEnth, 1e-3))

		Expect(s.ReleaseState(flags)).To(Succeed())
	})

	It("should restore the exact prior state after initialization", func() {
		s := p.NewState("s", false)
		s.Temperature.FixAt(422)
		s.MoleFrac["benzene"].SetValue(0.123)

		_, err := s.Initialize(initialization.Config{
			StateArgs: hdaStateArgs,
			Solver:    substitution.New(),
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(s.Temperature.IsFixed()).To(BeTrue())
		Expect(s.Temperature.Value()).To(Equal(422.0))
		Expect(s.MoleFrac["benzene"].IsFixed()).To(BeFalse())
		Expect(s.MoleFrac["benzene"].Value()).To(Equal(0.123))
		Expect(s.FlowMol.IsFixed()).To(BeFalse())
		Expect(s.ConsistencyConstraint().IsActive()).To(BeTrue())
	})

	It("should reject an unbalanced block with a PreconditionError", func() {
		s := p.NewState("s", false)
		s.ModelBlock().DeclareVariable("orphan", model.VarSpec{})

		_, err := s.Initialize(initialization.Config{
			StateArgs: hdaStateArgs,
			Solver:    substitution.New(),
		})

		var precondition *initialization.PreconditionError
		Expect(errors.As(err, &precondition)).To(BeTrue())
		Expect(precondition.DegreesOfFreedom).To(Equal(1))
	})
})
