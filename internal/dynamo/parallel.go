package dynamo

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent flights concurrently. Every run gets its own
// integrator and metric instances; nothing is shared between goroutines.
type Ensemble struct {
	newIntegrator func() Integrator
	newMetrics    func(FlightModel) []Metric
	workers       int
}

func NewEnsemble(newIntegrator func() Integrator, newMetrics func(FlightModel) []Metric, workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{newIntegrator: newIntegrator, newMetrics: newMetrics, workers: workers}
}

// Run returns one result per model, in the order the models were given.
func (e *Ensemble) Run(ctx context.Context, models []FlightModel, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(models))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, model := range models {
		g.Go(func() error {
			s := New(model, e.newIntegrator())
			if e.newMetrics != nil {
				for _, m := range e.newMetrics(model) {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("run %d (%s): %w", i, model.Name(), err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
