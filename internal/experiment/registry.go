package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/integrators"
	"github.com/san-kum/waterrocket/internal/metrics"
	"github.com/san-kum/waterrocket/internal/physics"
)

type ModelFactory func(p physics.Params) dynamo.FlightModel

type Registry struct {
	models      map[string]ModelFactory
	aliases     map[string]string
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelFactory),
		aliases:     make(map[string]string),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.models["vertical"] = func(p physics.Params) dynamo.FlightModel { return physics.NewVertical(p) }
	r.models["planar"] = func(p physics.Params) dynamo.FlightModel { return physics.NewPlanar(p) }
	r.aliases["1d"] = "vertical"
	r.aliases["2d"] = "planar"

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	return r
}

// Canonical resolves aliases such as "1d" to the registered model name.
func (r *Registry) Canonical(name string) string {
	if c, ok := r.aliases[name]; ok {
		return c
	}
	return name
}

func (r *Registry) GetModel(name string, p physics.Params) (dynamo.FlightModel, error) {
	fn, ok := r.models[r.Canonical(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownModel, name)
	}
	return fn(p), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(p physics.Params) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewMaxHeight(),
		metrics.NewMaxSpeed(),
		metrics.NewMaxRange(),
		metrics.NewFlightTime(),
		metrics.NewApogeeTime(),
		metrics.NewTimeToEmpty(),
		metrics.NewTubeExitSpeed(),
		metrics.NewEfficiency(p),
	}
}
