package physics_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/integrators"
	"github.com/san-kum/waterrocket/internal/physics"
)

func fly(model dynamo.FlightModel) *dynamo.Result {
	res, err := dynamo.New(model, integrators.NewEuler()).Run(context.Background(), dynamo.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return res
}

func expectFlightInvariants(res *dynamo.Result) {
	Expect(res.Samples).NotTo(BeEmpty())
	for i, s := range res.Samples {
		Expect(s.State.IsValid()).To(BeTrue(), "sample %d", i)
		Expect(s.WaterMass).To(BeNumerically(">=", 0), "sample %d", i)
		if i == 0 {
			continue
		}
		prev := res.Samples[i-1]
		Expect(s.WaterMass).To(BeNumerically("<=", prev.WaterMass), "water mass rose at sample %d", i)
		Expect(s.Phase).To(BeNumerically(">=", prev.Phase), "phase went backwards at sample %d", i)
		Expect(s.Time).To(BeNumerically(">=", prev.Time))
	}
}

var _ = Describe("Vertical", func() {
	var (
		p     physics.Params
		model *physics.Vertical
	)

	BeforeEach(func() {
		p = physics.DefaultDesign().SI()
		model = physics.NewVertical(p)
	})

	It("starts on the pad with the full water load", func() {
		x := model.Initial()
		Expect(x).To(HaveLen(model.StateDim()))
		Expect(x[0]).To(BeZero())
		Expect(x[1]).To(BeZero())
		Expect(x[2]).To(BeNumerically("~", 0.0005*physics.WaterDensity, 1e-12))
	})

	It("accelerates upwards at launch", func() {
		dx := model.Derive(model.Initial(), 0)
		Expect(dx[0]).To(BeZero())
		Expect(dx[1]).To(BeNumerically(">", 0))
		Expect(dx[2]).To(BeNumerically("<", 0))
	})

	It("falls freely when empty and still", func() {
		dx := model.Derive(dynamo.State{10, 0, 0}, 0)
		Expect(dx[1]).To(BeNumerically("~", -physics.Gravity, 1e-12))
		Expect(dx[2]).To(BeZero())
	})

	It("drags against the motion", func() {
		up := model.Derive(dynamo.State{10, 10, 0}, 0)
		down := model.Derive(dynamo.State{10, -10, 0}, 0)
		Expect(up[1]).To(BeNumerically("<", -physics.Gravity))
		Expect(down[1]).To(BeNumerically(">", -physics.Gravity))
	})

	It("floors water mass at zero", func() {
		x := model.Clamp(dynamo.State{1, 1, -0.01})
		Expect(x[2]).To(BeZero())
	})

	It("ends when falling at ground level", func() {
		st := dynamo.Status{Time: 3, MaxHeight: 20, ApexReached: true}
		falling := dynamo.Sample{Kinematics: dynamo.Kinematics{Y: -0.01, VY: -15}, Phase: dynamo.PhaseBallistic}
		Expect(model.Done(falling, st)).To(BeTrue())

		rising := dynamo.Sample{Kinematics: dynamo.Kinematics{Y: 0, VY: 1}, Phase: dynamo.PhaseBallistic}
		Expect(model.Done(rising, st)).To(BeFalse())

		_, ok := model.Touchdown(falling)
		Expect(ok).To(BeFalse())
	})

	It("flies a valid default flight", func() {
		res := fly(model)
		expectFlightInvariants(res)
		Expect(res.Truncated).To(BeFalse())
		Expect(res.Samples[0].Phase).To(Equal(dynamo.PhaseLaunchTube))
		Expect(res.Last().Phase).To(Equal(dynamo.PhaseBallistic))
		Expect(res.Last().Y).To(BeNumerically("<=", 0))
	})

	It("passes through the water phase with a short tube", func() {
		d := physics.DefaultDesign()
		d.TubeLength = 0.2
		res := fly(physics.NewVertical(d.SI()))
		expectFlightInvariants(res)

		seen := map[dynamo.Phase]bool{}
		for _, s := range res.Samples {
			seen[s.Phase] = true
		}
		Expect(seen).To(HaveKey(dynamo.PhaseWater))
	})

	It("survives a full bottle", func() {
		p.WaterVolume = p.BottleVolume
		res := fly(physics.NewVertical(p))
		expectFlightInvariants(res)
		for _, s := range res.Samples {
			Expect(s.Pressure).To(Equal(physics.AtmPressure))
		}
	})
})

var _ = Describe("Planar", func() {
	var (
		p     physics.Params
		model *physics.Planar
	)

	BeforeEach(func() {
		p = physics.DefaultDesign().SI()
		model = physics.NewPlanar(p)
	})

	It("thrusts along the launch angle from rest", func() {
		for _, deg := range []float64{30, 45, 60, 80} {
			p.LaunchAngle = deg * math.Pi / 180
			dx := physics.NewPlanar(p).Derive(physics.NewPlanar(p).Initial(), 0)
			heading := math.Atan2(dx[3]+physics.Gravity, dx[2])
			Expect(heading).To(BeNumerically("~", p.LaunchAngle, 1e-9))
		}
	})

	It("has no horizontal thrust on a vertical rail", func() {
		p.LaunchAngle = math.Pi / 2
		m := physics.NewPlanar(p)
		dx := m.Derive(m.Initial(), 0)
		Expect(dx[2]).To(Equal(0.0))
		Expect(dx[3]).To(BeNumerically(">", 0))
	})

	It("thrusts along the velocity once moving", func() {
		m := p.InitialWaterMass()
		dx := model.Derive(dynamo.State{1, 1, 3, 4, m}, 0)
		Expect(dx[0]).To(Equal(3.0))
		Expect(dx[1]).To(Equal(4.0))
		Expect(math.Atan2(dx[3]+physics.Gravity, dx[2])).To(BeNumerically("~", math.Atan2(4, 3), 1e-9))
	})

	It("has no drag below the speed threshold", func() {
		dx := model.Derive(dynamo.State{0, 5, 1e-8, 0, 0}, 0)
		Expect(dx[2]).To(BeZero())
		Expect(dx[3]).To(BeNumerically("~", -physics.Gravity, 1e-12))
	})

	It("lands only after apex and the guard time", func() {
		ground := dynamo.State{3, 0, 1, -1, 0}
		early := dynamo.Status{Time: 0.05, MaxHeight: 1, ApexReached: true}
		late := dynamo.Status{Time: 2, MaxHeight: 1, ApexReached: true}
		climbing := dynamo.Status{Time: 2}

		Expect(model.Classify(dynamo.PhaseBallistic, ground, early)).To(Equal(dynamo.PhaseBallistic))
		Expect(model.Classify(dynamo.PhaseBallistic, ground, climbing)).To(Equal(dynamo.PhaseBallistic))
		Expect(model.Classify(dynamo.PhaseBallistic, ground, late)).To(Equal(dynamo.PhaseLanded))
	})

	It("pins the touchdown sample to the ground", func() {
		s := dynamo.Sample{Time: 4, Kinematics: dynamo.Kinematics{X: 25, Y: -0.02, VX: 5, VY: -12}, Phase: dynamo.PhaseLanded}
		final, ok := model.Touchdown(s)
		Expect(ok).To(BeTrue())
		Expect(final.Phase).To(Equal(dynamo.PhaseLanded))
		Expect(final.X).To(Equal(25.0))
		Expect(final.Y).To(BeZero())
		Expect(final.Speed()).To(BeZero())
		Expect(final.WaterMass).To(BeZero())
		Expect(final.Pressure).To(Equal(physics.AtmPressure))
	})

	It("flies a valid default flight ending in a landing", func() {
		res := fly(model)
		expectFlightInvariants(res)

		Expect(res.Truncated).To(BeFalse())
		last := res.Last()
		Expect(last.Phase).To(Equal(dynamo.PhaseLanded))
		Expect(last.Y).To(BeZero())
		Expect(last.X).To(BeNumerically(">", 0))
	})

	It("survives a full bottle", func() {
		p.WaterVolume = p.BottleVolume
		res := fly(physics.NewPlanar(p))
		expectFlightInvariants(res)
		Expect(res.Truncated).To(BeTrue())
	})
})
