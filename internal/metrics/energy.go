package metrics

import (
	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

// PressureEnergy is the work stored in the air charge, (P_i - P_atm) * V_air0.
func PressureEnergy(p physics.Params) float64 {
	return (p.InitialPressure - physics.AtmPressure) * (p.BottleVolume - p.WaterVolume)
}

// KineticEnergy of the launch mass (dry plus initial water) at the given speed.
func KineticEnergy(p physics.Params, speed float64) float64 {
	return 0.5 * (p.DryMass + p.InitialWaterMass()) * speed * speed
}

// Efficiency is the peak kinetic energy as a fraction of the stored
// pressure energy. It is a rough estimate: the kinetic energy uses the
// launch mass while the peak speed is reached near dry mass, so the value
// can exceed 1.
type Efficiency struct {
	params   physics.Params
	maxSpeed float64
}

func NewEfficiency(p physics.Params) *Efficiency {
	return &Efficiency{params: p}
}

func (e *Efficiency) Name() string { return NameEfficiency }

func (e *Efficiency) Observe(s dynamo.Sample) {
	if v := s.Speed(); v > e.maxSpeed {
		e.maxSpeed = v
	}
}

func (e *Efficiency) Value() float64 {
	in := PressureEnergy(e.params)
	if in <= 0 {
		return 0
	}
	return KineticEnergy(e.params, e.maxSpeed) / in
}

func (e *Efficiency) Reset() { e.maxSpeed = 0 }
