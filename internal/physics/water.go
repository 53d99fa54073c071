package physics

import "math"

// Pressure is the absolute air pressure in the bottle for the given water
// mass, from adiabatic expansion of the initial air charge. It falls back to
// atmospheric pressure when there is no air volume to expand and once the
// water is gone, at which point the charge is taken as vented.
func Pressure(waterMass float64, p Params) float64 {
	if waterMass <= 0 {
		return AtmPressure
	}

	vAir0 := p.BottleVolume - p.WaterVolume
	vAir := p.BottleVolume - waterMass/WaterDensity
	if vAir0 <= 0 || vAir <= 0 {
		return AtmPressure
	}

	return p.InitialPressure * math.Pow(vAir0/vAir, Gamma)
}

// EscapeVelocity is the nozzle exit speed of the water from Bernoulli with the
// bottle/nozzle area ratio and the hydrostatic head of the remaining water.
// It is zero when the radicand is negative.
func EscapeVelocity(pressure, waterMass float64, p Params) float64 {
	ar2 := p.BottleArea * p.BottleArea
	areaFactor := ar2 / (ar2 - p.NozzleArea*p.NozzleArea)

	waterVolume := waterMass / WaterDensity
	termPressure := 2 * areaFactor * (pressure - AtmPressure) / WaterDensity
	termGravity := 2 * Gravity * areaFactor * (waterVolume / p.BottleArea)

	sum := termPressure + termGravity
	if sum < 0 {
		return 0
	}
	return math.Sqrt(sum)
}

type Propulsion struct {
	Thrust   float64 // N, along the thrust axis
	MassFlow float64 // kg/s, never positive
	Mass     float64 // kg, dry mass plus water
}

// Propel evaluates the water jet. Residual air thrust after the water is gone
// is not modelled: an empty rocket coasts at its dry mass.
func Propel(waterMass float64, p Params) Propulsion {
	if waterMass <= 0 {
		return Propulsion{Mass: p.DryMass}
	}

	ue := EscapeVelocity(Pressure(waterMass, p), waterMass, p)
	mdot := -WaterDensity * p.NozzleArea * ue

	return Propulsion{
		Thrust:   -mdot * ue,
		MassFlow: mdot,
		Mass:     p.DryMass + waterMass,
	}
}

// DragForce is the magnitude of aerodynamic drag at the given speed.
func DragForce(speed float64, p Params) float64 {
	return 0.5 * AirDensity * speed * speed * p.DragCoeff * p.RefArea
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
