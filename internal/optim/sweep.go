package optim

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/waterrocket/internal/metrics"
	"github.com/san-kum/waterrocket/internal/physics"
)

const (
	waterPoints   = 15
	waterMinLiter = 0.2
	waterMaxFill  = 0.95
)

// Plan is a one-parameter sweep ranked by one metric.
type Plan struct {
	Name   string    `json:"name" yaml:"name"`
	Model  string    `json:"model" yaml:"model"`
	Param  string    `json:"param" yaml:"param"`
	Values []float64 `json:"values" yaml:"values"`
	Metric string    `json:"metric" yaml:"metric"`
	Goal   Goal      `json:"-" yaml:"-"`
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// WaterPlan searches the water load for the highest vertical flight, from
// 0.2 L up to 95% of the bottle.
func WaterPlan(base physics.Design) Plan {
	return Plan{
		Name:   "water",
		Model:  "vertical",
		Param:  "water",
		Values: Linspace(waterMinLiter, waterMaxFill*base.BottleLiters, waterPoints),
		Metric: metrics.NameMaxHeight,
		Goal:   Maximize,
	}
}

func PressurePlan() Plan {
	return Plan{
		Name:   "pressure",
		Model:  "vertical",
		Param:  "pressure",
		Values: []float64{40, 60, 80, 100},
		Metric: metrics.NameMaxHeight,
		Goal:   Maximize,
	}
}

func AnglePlan() Plan {
	return Plan{
		Name:   "angle",
		Model:  "planar",
		Param:  "angle",
		Values: []float64{30, 45, 60, 75, 90},
		Metric: metrics.NameMaxRange,
		Goal:   Maximize,
	}
}

func Plans(base physics.Design) map[string]Plan {
	return map[string]Plan{
		"water":    WaterPlan(base),
		"pressure": PressurePlan(),
		"angle":    AnglePlan(),
	}
}

func PlanNames() []string {
	names := []string{"water", "pressure", "angle"}
	sort.Strings(names)
	return names
}

func GetPlan(name string, base physics.Design) (Plan, error) {
	p, ok := Plans(base)[name]
	if !ok {
		return Plan{}, fmt.Errorf("unknown sweep: %s (available: %v)", name, PlanNames())
	}
	return p, nil
}

// Sweep runs the plan against base and returns the ranked outcome.
func Sweep(ctx context.Context, base physics.Design, plan Plan, logger *slog.Logger) (*Outcome, error) {
	g := NewGridSearch(plan.Model, base, []string{plan.Param}, [][]float64{plan.Values}).
		WithLogger(logger)
	return g.Search(ctx, plan.Metric, plan.Goal)
}
