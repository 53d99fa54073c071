package dynamo

import (
	"fmt"
	"math"
)

const (
	// DefaultDt is the fixed integration step in seconds.
	DefaultDt = 0.001
	// DefaultMaxTime is the simulated-time ceiling that always ends a run.
	DefaultMaxTime = 100.0
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is the right-hand side of dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

// Kinematics is a layout-independent view of a flight state.
type Kinematics struct {
	X, Y      float64
	VX, VY    float64
	WaterMass float64
}

func (k Kinematics) Speed() float64 {
	return math.Hypot(k.VX, k.VY)
}

// Distance is the straight-line distance from the launch point.
func (k Kinematics) Distance() float64 {
	return math.Hypot(k.X, k.Y)
}

// Status carries what the loop has observed so far in a run.
type Status struct {
	Time        float64
	MaxHeight   float64
	ApexReached bool
}

// FlightModel is one variant of the rocket physics (vertical or planar).
// The simulator is written once against this interface.
type FlightModel interface {
	System
	Name() string
	Initial() State
	Kinematics(x State) Kinematics
	Pressure(x State) float64
	// Classify returns the phase of x given the phase of the previous sample.
	Classify(prev Phase, x State, st Status) Phase
	Done(s Sample, st Status) bool
	// Touchdown returns the synthetic sample appended after a terminating
	// sample, if the model records one.
	Touchdown(s Sample) (Sample, bool)
	// Clamp enforces the post-step invariants on a freshly integrated state.
	Clamp(x State) State
}

type Sample struct {
	Time  float64
	State State
	Kinematics
	Pressure float64
	Phase    Phase
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

type Config struct {
	Dt            float64
	MaxTime       float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            DefaultDt,
		MaxTime:       DefaultMaxTime,
		ValidateState: true,
	}
}

type Result struct {
	Model     string
	Samples   []Sample
	Metrics   map[string]float64
	Steps     int
	Truncated bool
}

// Last returns the final sample, or the zero Sample for an empty result.
func (r *Result) Last() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Series extracts one float per sample.
func (r *Result) Series(fn func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = fn(s)
	}
	return out
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
