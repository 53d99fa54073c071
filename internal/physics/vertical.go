package physics

import "github.com/san-kum/waterrocket/internal/dynamo"

// Vertical is the 1D model: a rocket launched straight up.
// State: {y, vy, waterMass}.
type Vertical struct {
	Params Params
}

func NewVertical(p Params) *Vertical {
	return &Vertical{Params: p}
}

func (v *Vertical) Name() string  { return "vertical" }
func (v *Vertical) StateDim() int { return 3 }

func (v *Vertical) Initial() dynamo.State {
	return dynamo.State{0, 0, v.Params.InitialWaterMass()}
}

func (v *Vertical) Derive(x dynamo.State, t float64) dynamo.State {
	vy, m := x[1], x[2]

	prop := Propel(m, v.Params)
	drag := sign(vy) * DragForce(vy, v.Params)
	weight := prop.Mass * Gravity

	return dynamo.State{
		vy,
		(prop.Thrust - weight - drag) / prop.Mass,
		prop.MassFlow,
	}
}

func (v *Vertical) Kinematics(x dynamo.State) dynamo.Kinematics {
	return dynamo.Kinematics{Y: x[0], VY: x[1], WaterMass: x[2]}
}

func (v *Vertical) Pressure(x dynamo.State) float64 {
	return Pressure(x[2], v.Params)
}

func (v *Vertical) Classify(prev dynamo.Phase, x dynamo.State, st dynamo.Status) dynamo.Phase {
	return NextPhase(prev, PhaseInput{
		Distance:   v.Kinematics(x).Distance(),
		TubeLength: v.Params.TubeLength,
		WaterMass:  x[2],
		Pressure:   v.Pressure(x),
	})
}

// Done ends the run once the unpowered rocket is falling at or below ground.
func (v *Vertical) Done(s dynamo.Sample, st dynamo.Status) bool {
	return s.Phase == dynamo.PhaseBallistic && s.VY < 0 && s.Y <= 0
}

func (v *Vertical) Touchdown(s dynamo.Sample) (dynamo.Sample, bool) {
	return dynamo.Sample{}, false
}

func (v *Vertical) Clamp(x dynamo.State) dynamo.State {
	if x[2] < 0 {
		x[2] = 0
	}
	return x
}
