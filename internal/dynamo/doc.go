// Package dynamo provides the simulation primitives for water-rocket flights.
//
// The package defines the fundamental interfaces and types for numerical
// integration of a flight:
//
//   - [State]: vector representing the rocket state
//   - [System]: interface for ODE right-hand sides (dX/dt = f(X, t))
//   - [FlightModel]: a flight variant (vertical or planar) with phase rules
//   - [Integrator]: fixed-step numerical integrator
//   - [Simulator]: runs one flight and records a [Sample] per step
//
// # Example
//
//	model := physics.NewVertical(design.SI())
//	sim := dynamo.New(model, integrators.NewEuler())
//	result, _ := sim.Run(ctx, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parameter sweeps use the
// [Ensemble] type, which builds a private simulator per run.
package dynamo
