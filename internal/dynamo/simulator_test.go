package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

type ballModel struct {
	v0        float64
	touchdown bool
	poison    bool
}

func (b *ballModel) Name() string  { return "ball" }
func (b *ballModel) StateDim() int { return 2 }

func (b *ballModel) Derive(x State, t float64) State {
	if b.poison {
		return State{math.NaN(), 0}
	}
	return State{x[1], -10}
}

func (b *ballModel) Initial() State { return State{0, b.v0} }

func (b *ballModel) Kinematics(x State) Kinematics {
	return Kinematics{Y: x[0], VY: x[1]}
}

func (b *ballModel) Pressure(x State) float64 { return 0 }

func (b *ballModel) Classify(prev Phase, x State, st Status) Phase {
	if x[0] <= 0 && st.ApexReached {
		return PhaseLanded
	}
	return PhaseBallistic
}

func (b *ballModel) Done(s Sample, st Status) bool { return s.Phase == PhaseLanded }

func (b *ballModel) Touchdown(s Sample) (Sample, bool) {
	if !b.touchdown {
		return Sample{}, false
	}
	return Sample{Time: s.Time, State: State{0, 0}, Phase: PhaseLanded}, true
}

func (b *ballModel) Clamp(x State) State { return x }

type eulerStep struct{}

func (e eulerStep) Step(sys System, x State, t, dt float64) State {
	dx := sys.Derive(x, t)
	next := make(State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}

type countMetric struct{ n int }

func (c *countMetric) Name() string     { return "count" }
func (c *countMetric) Observe(s Sample) { c.n++ }
func (c *countMetric) Value() float64   { return float64(c.n) }
func (c *countMetric) Reset()           { c.n = 0 }

type recorder struct{ phases []Phase }

func (r *recorder) OnSample(s Sample) { r.phases = append(r.phases, s.Phase) }

func TestSimulatorRun(t *testing.T) {
	sim := New(&ballModel{v0: 10}, eulerStep{})

	result, err := sim.Run(context.Background(), Config{Dt: 0.01, MaxTime: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Truncated {
		t.Error("expected the ball to land before the ceiling")
	}
	if result.Model != "ball" {
		t.Errorf("expected model name ball, got %s", result.Model)
	}

	last := result.Last()
	if last.Phase != PhaseLanded {
		t.Errorf("expected final phase landed, got %s", last.Phase)
	}
	if math.Abs(last.Time-2.0) > 0.05 {
		t.Errorf("expected landing near t=2, got %.4f", last.Time)
	}
	if len(result.Samples) != result.Steps+1 {
		t.Errorf("expected %d samples, got %d", result.Steps+1, len(result.Samples))
	}
}

func TestSimulatorSamplesAreIndependent(t *testing.T) {
	sim := New(&ballModel{v0: 5}, eulerStep{})

	result, err := sim.Run(context.Background(), Config{Dt: 0.01, MaxTime: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	first := result.Samples[0]
	if first.State[0] != 0 || first.State[1] != 5 {
		t.Errorf("first sample changed after run: %v", first.State)
	}
	if first.Y != first.State[0] || first.VY != first.State[1] {
		t.Error("kinematics disagree with recorded state")
	}
}

func TestSimulatorTouchdown(t *testing.T) {
	sim := New(&ballModel{v0: 10, touchdown: true}, eulerStep{})
	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Dt: 0.01, MaxTime: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != result.Steps+2 {
		t.Errorf("expected touchdown sample appended, got %d samples for %d steps", len(result.Samples), result.Steps)
	}
	if result.Last().State[0] != 0 {
		t.Errorf("expected touchdown at ground, got %v", result.Last().State)
	}
	if got := result.Metrics["count"]; got != float64(len(result.Samples)) {
		t.Errorf("metric saw %v samples, result has %d", got, len(result.Samples))
	}
}

func TestSimulatorTruncates(t *testing.T) {
	sim := New(&ballModel{v0: 1000}, eulerStep{})

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, MaxTime: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !result.Truncated {
		t.Error("expected truncated run")
	}
	if result.Last().Time >= 1 {
		t.Errorf("sample recorded past the ceiling: t=%f", result.Last().Time)
	}
}

func TestSimulatorObservers(t *testing.T) {
	sim := New(&ballModel{v0: 10}, eulerStep{})
	rec := &recorder{}
	sim.AddObserver(rec)

	result, err := sim.Run(context.Background(), Config{Dt: 0.01, MaxTime: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(rec.phases) != len(result.Samples) {
		t.Fatalf("observer saw %d samples, expected %d", len(rec.phases), len(result.Samples))
	}
	for i := 1; i < len(rec.phases); i++ {
		if rec.phases[i] < rec.phases[i-1] {
			t.Fatalf("phase went backwards at %d: %s -> %s", i, rec.phases[i-1], rec.phases[i])
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&ballModel{v0: 10}, eulerStep{})

	tests := []Config{
		{Dt: 0, MaxTime: 1},
		{Dt: -0.1, MaxTime: 1},
		{Dt: 0.1, MaxTime: 0},
	}

	for _, cfg := range tests {
		_, err := sim.Run(context.Background(), cfg)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("config %+v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	sim := New(&ballModel{v0: 10, poison: true}, eulerStep{})

	_, err := sim.Run(context.Background(), DefaultConfig())
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	var simErr *SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if simErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %d", simErr.Step)
	}
}

func TestSimulatorCancelled(t *testing.T) {
	sim := New(&ballModel{v0: 10}, eulerStep{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnsembleOrder(t *testing.T) {
	models := []FlightModel{
		&ballModel{v0: 5},
		&ballModel{v0: 10},
		&ballModel{v0: 20},
	}

	ens := NewEnsemble(func() Integrator { return eulerStep{} }, func(FlightModel) []Metric {
		return []Metric{&countMetric{}}
	}, 2)

	results, err := ens.Run(context.Background(), models, Config{Dt: 0.01, MaxTime: 10})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != len(models) {
		t.Fatalf("expected %d results, got %d", len(models), len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Last().Time <= results[i-1].Last().Time {
			t.Errorf("result %d out of order: landed at %.2f after %.2f", i, results[i].Last().Time, results[i-1].Last().Time)
		}
	}
	for i, r := range results {
		if r.Metrics["count"] != float64(len(r.Samples)) {
			t.Errorf("result %d: metric count %v, samples %d", i, r.Metrics["count"], len(r.Samples))
		}
	}
}

func TestEnsembleError(t *testing.T) {
	models := []FlightModel{&ballModel{v0: 5}, &ballModel{v0: 5, poison: true}}
	ens := NewEnsemble(func() Integrator { return eulerStep{} }, nil, 0)

	_, err := ens.Run(context.Background(), models, DefaultConfig())
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}
