package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

const DefaultIntegrator = "euler"

type Config struct {
	Model      string
	Integrator string
	Design     physics.Design
	Sim        dynamo.Config
}

type Experiment struct {
	cfg       Config
	registry  *Registry
	simulator *dynamo.Simulator
}

func New(cfg Config) *Experiment {
	if cfg.Integrator == "" {
		cfg.Integrator = DefaultIntegrator
	}
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
	}
}

// Setup validates the design and builds the simulator with the default
// metrics attached.
func (e *Experiment) Setup() error {
	if err := e.cfg.Design.Validate(); err != nil {
		return err
	}

	p := e.cfg.Design.SI()
	model, err := e.registry.GetModel(e.cfg.Model, p)
	if err != nil {
		return err
	}

	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.simulator = dynamo.New(model, integ)
	for _, m := range e.registry.DefaultMetrics(p) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.Sim)
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *dynamo.Simulator {
	return e.simulator
}

// Run simulates one flight of design d with the named model.
func Run(ctx context.Context, model string, d physics.Design, cfg dynamo.Config) (*dynamo.Result, error) {
	exp := New(Config{Model: model, Design: d, Sim: cfg})
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

// RunMany simulates every design concurrently and returns the results in
// the same order.
func RunMany(ctx context.Context, model string, designs []physics.Design, cfg dynamo.Config, workers int) ([]*dynamo.Result, error) {
	reg := NewRegistry()

	models := make([]dynamo.FlightModel, len(designs))
	params := make(map[dynamo.FlightModel]physics.Params, len(designs))
	for i, d := range designs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("design %d: %w", i, err)
		}
		p := d.SI()
		m, err := reg.GetModel(model, p)
		if err != nil {
			return nil, err
		}
		models[i] = m
		params[m] = p
	}

	ens := dynamo.NewEnsemble(
		func() dynamo.Integrator {
			integ, _ := reg.GetIntegrator(DefaultIntegrator)
			return integ
		},
		func(m dynamo.FlightModel) []dynamo.Metric {
			return reg.DefaultMetrics(params[m])
		},
		workers,
	)
	return ens.Run(ctx, models, cfg)
}
