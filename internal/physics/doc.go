// Package physics provides the water-rocket flight models.
//
// A rocket is described by a [Design] in user units (psi, liters, cm^2,
// grams, degrees) and converted to SI [Params] before a run. Two models
// implement [dynamo.FlightModel]:
//
//   - [Vertical]: 1D flight straight up, state {y, vy, m}
//   - [Planar]: 2D flight at the launch angle, state {x, y, vx, vy, m}
//
// Both share the pressure/thrust model ([Pressure], [EscapeVelocity],
// [Propel]) and the phase machine [NextPhase].
//
// # Simplifications
//
// Thrust from residual air after the water is gone is ignored, though the
// [dynamo.PhaseAir] phase is still reported while the water threshold has
// been crossed and the bottle is above atmospheric pressure.
//
//	model := physics.NewVertical(physics.DefaultDesign().SI())
//	sim := dynamo.New(model, integrators.NewEuler())
package physics
