package integrators

import "github.com/san-kum/waterrocket/internal/dynamo"

// Euler is the explicit first-order method x(t+dt) = x(t) + f(x, t)*dt.
// It relies on a small fixed step for stability; there is no error control.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
