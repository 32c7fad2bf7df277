package model

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DegreesOfFreedom", func() {
	It("should count free variables minus active constraints", func() {
		b := NewBlock("b")
		x := b.DeclareVariable("x", VarSpec{Upper: 1})
		y := b.DeclareVariable("y", VarSpec{Upper: 1})
		b.DeclareConstraint("c", []*Variable{x, y}, func() float64 {
			return x.Value() + y.Value() - 1
		})

		Expect(DegreesOfFreedom(b)).To(Equal(1))

		x.Fix()
		Expect(DegreesOfFreedom(b)).To(Equal(0))

		y.Fix()
		Expect(DegreesOfFreedom(b)).To(Equal(-1))

		b.Constraint("c").Deactivate()
		Expect(DegreesOfFreedom(b)).To(Equal(0))
	})

	It("should aggregate over indexed blocks", func() {
		b1 := NewBlock("b1")
		b1.DeclareVariable("x", VarSpec{Upper: 1})

		b2 := NewBlock("b2")
		v := b2.DeclareVariable("y", VarSpec{Upper: 1})
		b2.DeclareConstraint("c", []*Variable{v}, func() float64 {
			return v.Value()
		})

		ib := NewIndexedBlock("ib", b1, b2)
		Expect(DegreesOfFreedom(ib)).To(Equal(1))
		Expect(ib.FreeVariables()).To(HaveLen(2))
		Expect(ib.ActiveConstraints()).To(HaveLen(1))
	})
})
