package physics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

var _ = Describe("Design", func() {
	var d physics.Design

	BeforeEach(func() {
		d = physics.DefaultDesign()
	})

	Describe("SI", func() {
		It("converts gauge psi to absolute pascals", func() {
			p := d.SI()
			Expect(p.InitialPressure).To(BeNumerically("~", 70*6894.76+101325, 1e-6))
		})

		It("converts volumes, areas, mass and angle", func() {
			p := d.SI()
			Expect(p.BottleVolume).To(BeNumerically("~", 0.002, 1e-12))
			Expect(p.WaterVolume).To(BeNumerically("~", 0.0005, 1e-12))
			Expect(p.NozzleArea).To(BeNumerically("~", 4.5e-4, 1e-12))
			Expect(p.BottleArea).To(BeNumerically("~", 9.5e-3, 1e-12))
			Expect(p.DryMass).To(BeNumerically("~", 0.055, 1e-12))
			Expect(p.RefArea).To(BeNumerically("~", 0.01, 1e-12))
			Expect(p.LaunchAngle).To(BeNumerically("~", math.Pi/4, 1e-12))
			Expect(p.TubeLength).To(Equal(1.0))
		})

		It("round-trips through FromSI", func() {
			d.PressurePSI = 83.5
			d.LaunchAngleDeg = 62
			back := physics.FromSI(d.SI())

			want := d.GetParams()
			for name, v := range back.GetParams() {
				Expect(v).To(BeNumerically("~", want[name], 1e-9), name)
			}
		})

		It("leaves the design untouched", func() {
			before := d
			_ = d.SI()
			Expect(d).To(Equal(before))
		})
	})

	Describe("Validate", func() {
		It("accepts the default design", func() {
			Expect(d.Validate()).To(Succeed())
		})

		DescribeTable("rejects out-of-range fields",
			func(mutate func(*physics.Design)) {
				mutate(&d)
				err := d.Validate()
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			},
			Entry("zero pressure", func(d *physics.Design) { d.PressurePSI = 0 }),
			Entry("excess pressure", func(d *physics.Design) { d.PressurePSI = 200 }),
			Entry("no water", func(d *physics.Design) { d.WaterLiters = 0 }),
			Entry("full bottle", func(d *physics.Design) { d.WaterLiters = d.BottleLiters }),
			Entry("nozzle wider than bottle", func(d *physics.Design) { d.NozzleCm2 = 120 }),
			Entry("zero dry mass", func(d *physics.Design) { d.DryMassGrams = 0 }),
			Entry("negative tube", func(d *physics.Design) { d.TubeLength = -1 }),
			Entry("negative drag", func(d *physics.Design) { d.DragCoeff = -0.1 }),
			Entry("flat angle", func(d *physics.Design) { d.LaunchAngleDeg = 0 }),
			Entry("angle past vertical", func(d *physics.Design) { d.LaunchAngleDeg = 95 }),
		)

		It("reports every violation", func() {
			d.PressurePSI = -1
			d.DryMassGrams = 0
			err := d.Validate()
			Expect(err).To(MatchError(ContainSubstring("pressure")))
			Expect(err).To(MatchError(ContainSubstring("dry mass")))
		})
	})

	Describe("SetParam", func() {
		It("updates a named field", func() {
			Expect(d.SetParam("water", 0.8)).To(Succeed())
			Expect(d.WaterLiters).To(Equal(0.8))
		})

		It("rejects unknown names", func() {
			Expect(d.SetParam("fins", 3)).To(MatchError(ContainSubstring("unknown param")))
		})

		It("knows every parameter", func() {
			names := physics.ParamNames()
			Expect(names).To(HaveLen(10))
			for _, name := range names {
				Expect(d.SetParam(name, 1)).To(Succeed())
			}
			Expect(physics.ParamUnit("pressure")).To(Equal("psi"))
		})
	})
})
