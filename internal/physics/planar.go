package physics

import (
	"math"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

// Planar is the 2D model: a rocket launched at an angle in the x-y plane.
// State: {x, y, vx, vy, waterMass}. A 90 degree launch has no horizontal
// rail component, so it flies straight up with zero range.
type Planar struct {
	Params Params
}

func NewPlanar(p Params) *Planar {
	return &Planar{Params: p}
}

func (p *Planar) Name() string  { return "planar" }
func (p *Planar) StateDim() int { return 5 }

func (p *Planar) Initial() dynamo.State {
	return dynamo.State{0, 0, 0, 0, p.Params.InitialWaterMass()}
}

func (p *Planar) Derive(x dynamo.State, t float64) dynamo.State {
	vx, vy, m := x[2], x[3], x[4]
	speed := math.Hypot(vx, vy)

	prop := Propel(m, p.Params)

	// Thrust follows the velocity once there is one; on the pad it points
	// along the launch rail.
	var thrustX, thrustY float64
	if prop.Thrust != 0 {
		if speed > MinSpeed {
			thrustX = prop.Thrust * vx / speed
			thrustY = prop.Thrust * vy / speed
		} else {
			cos, sin := rail(p.Params.LaunchAngle)
			thrustX = prop.Thrust * cos
			thrustY = prop.Thrust * sin
		}
	}

	var dragX, dragY float64
	if speed >= MinSpeed {
		drag := DragForce(speed, p.Params)
		dragX = -drag * vx / speed
		dragY = -drag * vy / speed
	}

	weight := prop.Mass * Gravity

	return dynamo.State{
		vx,
		vy,
		(thrustX + dragX) / prop.Mass,
		(thrustY + dragY - weight) / prop.Mass,
		prop.MassFlow,
	}
}

// rail is the launch direction. cos(pi/2) is about 6e-17 in floating point,
// which is snapped to zero.
func rail(angle float64) (float64, float64) {
	cos, sin := math.Cos(angle), math.Sin(angle)
	if math.Abs(cos) < railEpsilon {
		cos = 0
	}
	return cos, sin
}

func (p *Planar) Kinematics(x dynamo.State) dynamo.Kinematics {
	return dynamo.Kinematics{X: x[0], Y: x[1], VX: x[2], VY: x[3], WaterMass: x[4]}
}

func (p *Planar) Pressure(x dynamo.State) float64 {
	return Pressure(x[4], p.Params)
}

func (p *Planar) Classify(prev dynamo.Phase, x dynamo.State, st dynamo.Status) dynamo.Phase {
	return NextPhase(prev, PhaseInput{
		Distance:   p.Kinematics(x).Distance(),
		TubeLength: p.Params.TubeLength,
		WaterMass:  x[4],
		Pressure:   p.Pressure(x),
		Landed:     landed(x[1], st),
	})
}

func landed(y float64, st dynamo.Status) bool {
	return y <= 0 && st.ApexReached && st.Time > LandingGuard
}

func (p *Planar) Done(s dynamo.Sample, st dynamo.Status) bool {
	return s.Phase == dynamo.PhaseLanded || landed(s.Y, st)
}

// Touchdown pins the rocket to the ground at its landing range.
func (p *Planar) Touchdown(s dynamo.Sample) (dynamo.Sample, bool) {
	return dynamo.Sample{
		Time:       s.Time,
		State:      dynamo.State{s.X, 0, 0, 0, 0},
		Kinematics: dynamo.Kinematics{X: s.X},
		Pressure:   AtmPressure,
		Phase:      dynamo.PhaseLanded,
	}, true
}

func (p *Planar) Clamp(x dynamo.State) dynamo.State {
	if x[4] < 0 {
		x[4] = 0
	}
	return x
}
