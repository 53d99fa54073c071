package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/waterrocket/internal/physics"
)

var _ = Describe("Pressure and thrust", func() {
	var p physics.Params

	BeforeEach(func() {
		p = physics.DefaultDesign().SI()
	})

	Describe("Pressure", func() {
		It("starts at the charge pressure", func() {
			Expect(physics.Pressure(p.InitialWaterMass(), p)).To(BeNumerically("~", p.InitialPressure, 1e-3))
		})

		It("is atmospheric once the water is gone", func() {
			Expect(physics.Pressure(0, p)).To(Equal(physics.AtmPressure))
			Expect(physics.Pressure(-1e-3, p)).To(Equal(physics.AtmPressure))
		})

		It("falls as the water drains", func() {
			m0 := p.InitialWaterMass()
			prev := physics.Pressure(m0, p)
			for i := 1; i < 10; i++ {
				cur := physics.Pressure(m0*float64(10-i)/10, p)
				Expect(cur).To(BeNumerically("<", prev))
				prev = cur
			}
		})

		It("stays at or above atmospheric before depletion for the default rocket", func() {
			m0 := p.InitialWaterMass()
			for i := 0; i < 50; i++ {
				m := m0 * float64(50-i) / 50
				Expect(physics.Pressure(m, p)).To(BeNumerically(">=", physics.AtmPressure))
			}
		})

		It("falls back to atmospheric for a full bottle", func() {
			p.WaterVolume = p.BottleVolume
			for _, m := range []float64{p.InitialWaterMass(), p.InitialWaterMass() / 2, 1e-6} {
				Expect(physics.Pressure(m, p)).To(Equal(physics.AtmPressure))
			}
		})

		It("falls back to atmospheric when the water overfills the bottle", func() {
			Expect(physics.Pressure(p.BottleVolume*physics.WaterDensity*1.1, p)).To(Equal(physics.AtmPressure))
		})
	})

	Describe("EscapeVelocity", func() {
		It("is zero at or below atmospheric with no water head", func() {
			Expect(physics.EscapeVelocity(physics.AtmPressure, 0, p)).To(BeZero())
			Expect(physics.EscapeVelocity(physics.AtmPressure-5000, 0, p)).To(BeZero())
		})

		It("is never negative", func() {
			for _, P := range []float64{0, 5e4, physics.AtmPressure, 3e5, p.InitialPressure} {
				for _, m := range []float64{0, 0.1, p.InitialWaterMass()} {
					Expect(physics.EscapeVelocity(P, m, p)).To(BeNumerically(">=", 0))
				}
			}
		})

		It("grows with pressure", func() {
			m := p.InitialWaterMass()
			Expect(physics.EscapeVelocity(4e5, m, p)).To(BeNumerically(">", physics.EscapeVelocity(2e5, m, p)))
		})
	})

	Describe("Propel", func() {
		It("coasts at dry mass without water", func() {
			prop := physics.Propel(0, p)
			Expect(prop.Thrust).To(BeZero())
			Expect(prop.MassFlow).To(BeZero())
			Expect(prop.Mass).To(Equal(p.DryMass))
		})

		It("expels water with positive thrust", func() {
			m := p.InitialWaterMass()
			prop := physics.Propel(m, p)
			Expect(prop.MassFlow).To(BeNumerically("<", 0))
			Expect(prop.Thrust).To(BeNumerically(">", 0))
			Expect(prop.Mass).To(BeNumerically("~", p.DryMass+m, 1e-12))

			ue := physics.EscapeVelocity(physics.Pressure(m, p), m, p)
			Expect(prop.Thrust).To(BeNumerically("~", -prop.MassFlow*ue, 1e-9))
		})
	})

	Describe("DragForce", func() {
		It("is quadratic in speed", func() {
			Expect(physics.DragForce(20, p)).To(BeNumerically("~", 4*physics.DragForce(10, p), 1e-9))
			Expect(physics.DragForce(0, p)).To(BeZero())
		})
	})
})
