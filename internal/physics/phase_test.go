package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

var _ = Describe("NextPhase", func() {
	const (
		high = physics.AtmPressure * 3
		atm  = physics.AtmPressure
	)

	DescribeTable("classifies a sample",
		func(prev dynamo.Phase, in physics.PhaseInput, want dynamo.Phase) {
			in.TubeLength = 1.0
			Expect(physics.NextPhase(prev, in)).To(Equal(want))
		},
		Entry("on the rail",
			dynamo.PhaseLaunchTube, physics.PhaseInput{Distance: 0.5, WaterMass: 0.4, Pressure: high}, dynamo.PhaseLaunchTube),
		Entry("leaving the rail with water",
			dynamo.PhaseLaunchTube, physics.PhaseInput{Distance: 1.0, WaterMass: 0.4, Pressure: high}, dynamo.PhaseWater),
		Entry("leaving the rail with residual air",
			dynamo.PhaseLaunchTube, physics.PhaseInput{Distance: 1.2, WaterMass: 5e-5, Pressure: high}, dynamo.PhaseAir),
		Entry("leaving the rail empty",
			dynamo.PhaseLaunchTube, physics.PhaseInput{Distance: 1.2, WaterMass: 0, Pressure: atm}, dynamo.PhaseBallistic),
		Entry("water above the threshold",
			dynamo.PhaseWater, physics.PhaseInput{Distance: 5, WaterMass: 2e-4, Pressure: high}, dynamo.PhaseWater),
		Entry("water at the threshold",
			dynamo.PhaseWater, physics.PhaseInput{Distance: 5, WaterMass: physics.WaterThreshold, Pressure: high}, dynamo.PhaseAir),
		Entry("air vented",
			dynamo.PhaseAir, physics.PhaseInput{Distance: 5, WaterMass: 0, Pressure: atm}, dynamo.PhaseBallistic),
		Entry("ballistic below tube height does not re-enter the tube",
			dynamo.PhaseBallistic, physics.PhaseInput{Distance: 0.5, WaterMass: 0, Pressure: atm}, dynamo.PhaseBallistic),
		Entry("ballistic touching down",
			dynamo.PhaseBallistic, physics.PhaseInput{Distance: 20, Landed: true}, dynamo.PhaseLanded),
		Entry("landed stays landed",
			dynamo.PhaseLanded, physics.PhaseInput{Distance: 0.5, WaterMass: 0.4, Pressure: high}, dynamo.PhaseLanded),
	)

	It("never moves backwards", func() {
		inputs := []physics.PhaseInput{
			{Distance: 0.2, WaterMass: 0.4, Pressure: high},
			{Distance: 3, WaterMass: 0.4, Pressure: high},
			{Distance: 0.1, WaterMass: 0, Pressure: atm},
			{Distance: 8, WaterMass: 5e-5, Pressure: high},
			{Distance: 0, WaterMass: 0, Pressure: atm, Landed: true},
		}
		for _, prev := range dynamo.Phases() {
			for _, in := range inputs {
				in.TubeLength = 1
				Expect(physics.NextPhase(prev, in)).To(BeNumerically(">=", prev))
			}
		}
	})
})
