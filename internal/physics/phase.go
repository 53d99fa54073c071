package physics

import "github.com/san-kum/waterrocket/internal/dynamo"

// PhaseInput is what the phase rules look at for one sample.
type PhaseInput struct {
	// Distance from the launch point. Only consulted while still in the tube.
	Distance   float64
	TubeLength float64
	WaterMass  float64
	Pressure   float64
	// Landed is set by models that detect ground contact.
	Landed bool
}

// NextPhase classifies a sample given the phase of the one before it.
// The machine only moves forward: LaunchTube, Water, Air, Ballistic, Landed.
// A rule is tried only if the previous phase has not yet passed it, so a
// rocket falling back through the tube height does not re-enter the tube.
func NextPhase(prev dynamo.Phase, in PhaseInput) dynamo.Phase {
	switch prev {
	case dynamo.PhaseLaunchTube:
		if in.Distance < in.TubeLength {
			return dynamo.PhaseLaunchTube
		}
		fallthrough
	case dynamo.PhaseWater:
		if in.WaterMass > WaterThreshold {
			return dynamo.PhaseWater
		}
		fallthrough
	case dynamo.PhaseAir:
		if in.WaterMass <= WaterThreshold && in.Pressure > AtmPressure {
			return dynamo.PhaseAir
		}
		fallthrough
	case dynamo.PhaseBallistic:
		if in.Landed {
			return dynamo.PhaseLanded
		}
		return dynamo.PhaseBallistic
	}
	return dynamo.PhaseLanded
}
