package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/waterrocket/internal/config"
	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/experiment"
	"github.com/san-kum/waterrocket/internal/physics"
)

// Scenario is a scripted list of flights read from YAML.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Flights     []Flight `yaml:"flights"`
}

// Flight is one run in a scenario. Zero fields keep the preset (or default)
// value.
type Flight struct {
	Name       string             `yaml:"name"`
	Model      string             `yaml:"model"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	MaxTime    float64            `yaml:"max_time"`
	Params     map[string]float64 `yaml:"params"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Flights) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no flights", dynamo.ErrInvalidConfig, scenario.Name)
	}
	return &scenario, nil
}

// Resolve builds the validated run config for f.
func (f Flight) Resolve() (*config.Config, error) {
	reg := experiment.NewRegistry()
	cfg := config.DefaultConfig()
	if f.Model != "" {
		cfg.Model = reg.Canonical(f.Model)
	}

	if f.Preset != "" {
		p := config.GetPreset(cfg.Model, f.Preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset %s for %s", dynamo.ErrInvalidConfig, f.Preset, cfg.Model)
		}
		cfg = p
	}
	if f.Integrator != "" {
		cfg.Integrator = f.Integrator
	}
	if f.Dt != 0 {
		cfg.Dt = f.Dt
	}
	if f.MaxTime != 0 {
		cfg.MaxTime = f.MaxTime
	}

	// sorted so error messages are stable
	names := make([]string, 0, len(f.Params))
	for name := range f.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.Rocket.SetParam(name, f.Params[name]); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FlightResult pairs a scenario flight with its resolved config and result.
type FlightResult struct {
	Name   string
	Config *config.Config
	Result *dynamo.Result
}

// RunScenario executes the flights in order and stops at the first failure,
// returning what completed so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]FlightResult, error) {
	results := make([]FlightResult, 0, len(scenario.Flights))

	for i, f := range scenario.Flights {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("flight-%d", i+1)
		}

		cfg, err := f.Resolve()
		if err != nil {
			return results, fmt.Errorf("flight %d (%s): %w", i+1, name, err)
		}

		logger.Info("running flight", "step", i+1, "of", len(scenario.Flights), "name", name, "model", cfg.Model)

		exp := experiment.New(experiment.Config{
			Model:      cfg.Model,
			Integrator: cfg.Integrator,
			Design:     cfg.Rocket,
			Sim:        cfg.SimConfig(),
		})
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("flight %d (%s) setup: %w", i+1, name, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("flight %d (%s) run: %w", i+1, name, err)
		}

		results = append(results, FlightResult{Name: name, Config: cfg, Result: result})
	}

	return results, nil
}

// MonteCarloConfig describes launch-to-launch variability. Spread holds the
// relative half-width of a uniform perturbation per design parameter, so
// {"pressure": 0.05} draws pressures within 5% of the base.
type MonteCarloConfig struct {
	Model   string
	Base    physics.Design
	Spread  map[string]float64
	Trials  int
	Seed    int64
	Workers int
	Sim     dynamo.Config
}

type Trial struct {
	ID      int                `json:"id"`
	Design  physics.Design     `json:"design"`
	Metrics map[string]float64 `json:"metrics"`
}

type MonteCarloResult struct {
	Trials []Trial `json:"trials"`
	// Skipped counts draws that fell outside the valid design space.
	Skipped int `json:"skipped"`
}

// Stats summarises one metric over the trials.
type Stats struct {
	Metric string  `json:"metric"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func (c MonteCarloConfig) perturb(rng *rand.Rand) (physics.Design, error) {
	d := c.Base
	params := d.GetParams()

	names := make([]string, 0, len(c.Spread))
	for name := range c.Spread {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		base, ok := params[name]
		if !ok {
			return d, fmt.Errorf("unknown param: %s", name)
		}
		v := base * (1 + (rng.Float64()-0.5)*2*c.Spread[name])
		if err := d.SetParam(name, v); err != nil {
			return d, err
		}
	}
	return d, nil
}

// RunMonteCarlo draws Trials perturbed designs from a seeded source and flies
// the valid ones concurrently. A zero Seed uses the clock.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", dynamo.ErrInvalidConfig, cfg.Trials)
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	out := &MonteCarloResult{}
	designs := make([]physics.Design, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		d, err := cfg.perturb(rng)
		if err != nil {
			return nil, err
		}
		if err := d.Validate(); err != nil {
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				return nil, err
			}
			out.Skipped++
			continue
		}
		designs = append(designs, d)
	}

	results, err := experiment.RunMany(ctx, cfg.Model, designs, cfg.Sim, cfg.Workers)
	if err != nil {
		return nil, err
	}

	out.Trials = make([]Trial, len(results))
	for i, res := range results {
		out.Trials[i] = Trial{ID: i, Design: designs[i], Metrics: res.Metrics}
	}
	return out, nil
}

// MonteCarloStats summarises metric over the trials. It returns false when
// there are no trials.
func MonteCarloStats(res *MonteCarloResult, metric string) (Stats, bool) {
	if res == nil || len(res.Trials) == 0 {
		return Stats{Metric: metric}, false
	}

	values := make([]float64, len(res.Trials))
	for i, t := range res.Trials {
		values[i] = t.Metrics[metric]
	}

	s := Stats{Metric: metric, Min: floats.Min(values), Max: floats.Max(values)}
	if len(values) == 1 {
		s.Mean = values[0]
		return s, true
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s, true
}
