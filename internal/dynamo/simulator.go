package dynamo

import (
	"context"
	"fmt"
)

type Simulator struct {
	model      FlightModel
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(model FlightModel, integrator Integrator) *Simulator {
	return &Simulator{
		model:      model,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Model() FlightModel { return s.model }

// Run integrates one flight from launch until the model reports termination
// or cfg.MaxTime elapses. The phase of every sample is classified on the
// state recorded in that sample, before it is advanced.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Model:   s.model.Name(),
		Samples: make([]Sample, 0, 4096),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := s.model.Initial()
	t := 0.0
	phase := PhaseLaunchTube
	var st Status

	for step := 0; ; step++ {
		if t >= cfg.MaxTime {
			result.Truncated = true
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		k := s.model.Kinematics(x)
		st.observe(t, k)
		phase = s.model.Classify(phase, x, st)

		sample := Sample{
			Time:       t,
			State:      x.Clone(),
			Kinematics: k,
			Pressure:   s.model.Pressure(x),
			Phase:      phase,
		}
		s.record(result, sample)

		if s.model.Done(sample, st) {
			if final, ok := s.model.Touchdown(sample); ok {
				s.record(result, final)
			}
			break
		}

		next := s.model.Clamp(s.integrator.Step(s.model, x, t, cfg.Dt))
		if cfg.ValidateState && !next.IsValid() {
			return result, &SimulationError{Step: step, Time: t, State: next, Wrapped: ErrInvalidState}
		}

		x = next
		t += cfg.Dt
		result.Steps++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) record(r *Result, sample Sample) {
	r.Samples = append(r.Samples, sample)
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnSample(sample)
	}
}

func (st *Status) observe(t float64, k Kinematics) {
	st.Time = t
	if k.Y > st.MaxHeight {
		st.MaxHeight = k.Y
	}
	if !st.ApexReached && st.MaxHeight > 0 && k.VY < 0 {
		st.ApexReached = true
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.MaxTime <= 0 {
		return fmt.Errorf("%w: max time must be positive, got %f", ErrInvalidConfig, cfg.MaxTime)
	}
	return nil
}
