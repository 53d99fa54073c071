package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/experiment"
	"github.com/san-kum/waterrocket/internal/physics"
)

var ErrNoCandidates = errors.New("optim: no valid candidates in search space")

type Goal int

const (
	Maximize Goal = iota
	Minimize
)

func (g Goal) String() string {
	if g == Minimize {
		return "minimize"
	}
	return "maximize"
}

func ParseGoal(s string) (Goal, error) {
	switch s {
	case "", "max", "maximize":
		return Maximize, nil
	case "min", "minimize":
		return Minimize, nil
	}
	return Maximize, fmt.Errorf("unknown goal: %s", s)
}

type Point struct {
	Params  map[string]float64 `json:"params"`
	Value   float64            `json:"value"`
	Metrics map[string]float64 `json:"metrics"`
}

type Outcome struct {
	Model     string  `json:"model"`
	Metric    string  `json:"metric"`
	Goal      string  `json:"goal"`
	Points    []Point `json:"points"`
	BestIndex int     `json:"best_index"`
	Skipped   int     `json:"skipped"`
}

func (o *Outcome) Best() Point {
	return o.Points[o.BestIndex]
}

// Values returns the ranked metric of every point, in search order.
func (o *Outcome) Values() []float64 {
	out := make([]float64, len(o.Points))
	for i, p := range o.Points {
		out[i] = p.Value
	}
	return out
}

// GridSearch runs every combination of the given design parameters and ranks
// the flights by one metric.
type GridSearch struct {
	model      string
	base       physics.Design
	paramNames []string
	ranges     [][]float64
	cfg        dynamo.Config
	workers    int
	logger     *slog.Logger
}

func NewGridSearch(model string, base physics.Design, params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{
		model:      model,
		base:       base,
		paramNames: params,
		ranges:     ranges,
		cfg:        dynamo.DefaultConfig(),
		logger:     slog.New(slog.DiscardHandler),
	}
}

func (g *GridSearch) WithConfig(cfg dynamo.Config) *GridSearch {
	g.cfg = cfg
	return g
}

func (g *GridSearch) WithWorkers(n int) *GridSearch {
	g.workers = n
	return g
}

func (g *GridSearch) WithLogger(l *slog.Logger) *GridSearch {
	if l != nil {
		g.logger = l
	}
	return g
}

func (g *GridSearch) Search(ctx context.Context, metricName string, goal Goal) (*Outcome, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var (
		designs []physics.Design
		params  []map[string]float64
		skipped int
	)
	g.expand(0, map[string]float64{}, func(current map[string]float64) {
		d := g.base
		for name, v := range current {
			if err := d.SetParam(name, v); err != nil {
				g.logger.Warn("skipping candidate", "params", current, "err", err)
				skipped++
				return
			}
		}
		if err := d.Validate(); err != nil {
			g.logger.Debug("skipping invalid candidate", "params", current, "err", err)
			skipped++
			return
		}
		designs = append(designs, d)
		params = append(params, maps.Clone(current))
	})

	if len(designs) == 0 {
		return nil, ErrNoCandidates
	}

	g.logger.Info("grid search", "model", g.model, "candidates", len(designs), "skipped", skipped, "metric", metricName, "goal", goal)

	results, err := experiment.RunMany(ctx, g.model, designs, g.cfg, g.workers)
	if err != nil {
		return nil, fmt.Errorf("grid search: %w", err)
	}

	out := &Outcome{
		Model:   g.model,
		Metric:  metricName,
		Goal:    goal.String(),
		Points:  make([]Point, len(results)),
		Skipped: skipped,
	}
	for i, res := range results {
		v, ok := res.Metrics[metricName]
		if !ok {
			return nil, fmt.Errorf("grid search: unknown metric %q", metricName)
		}
		out.Points[i] = Point{Params: params[i], Value: v, Metrics: res.Metrics}
	}

	values := out.Values()
	if goal == Minimize {
		out.BestIndex = floats.MinIdx(values)
	} else {
		out.BestIndex = floats.MaxIdx(values)
	}

	g.logger.Info("grid search done", "best", out.Best().Params, metricName, out.Best().Value)
	return out, nil
}

func (g *GridSearch) expand(depth int, current map[string]float64, visit func(map[string]float64)) {
	if depth == len(g.paramNames) {
		visit(current)
		return
	}

	name := g.paramNames[depth]
	for _, v := range g.ranges[depth] {
		next := maps.Clone(current)
		next[name] = v
		g.expand(depth+1, next, visit)
	}
}
