package physics

// Physical constants shared by every flight model. SI units.
const (
	WaterDensity = 997.0    // kg/m^3
	Gravity      = 9.81     // m/s^2
	Gamma        = 1.4      // adiabatic index of air
	AirDensity   = 1.225    // kg/m^3
	AtmPressure  = 101325.0 // Pa
	PSIToPascal  = 6894.76
)

// Numerical thresholds. These are chosen for integration stability at the
// default step size, not for physical exactness.
const (
	// WaterThreshold is the water mass (kg) below which the water phase ends.
	WaterThreshold = 1e-4
	// MinSpeed (m/s) is the speed below which the velocity has no usable
	// direction. Thrust then follows the launch angle and drag is zero.
	MinSpeed = 1e-6
	// LandingGuard (s) keeps the planar model from landing on the pad.
	LandingGuard = 0.1
	// railEpsilon is below any launch-rail cosine except the 90 degree one.
	railEpsilon = 1e-12
)
