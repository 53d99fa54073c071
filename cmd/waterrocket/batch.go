package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/waterrocket/internal/automation"
	"github.com/san-kum/waterrocket/internal/metrics"
	"github.com/san-kum/waterrocket/internal/storage"
)

var (
	trials  int
	seed    int64
	workers int
	spread  map[string]string
)

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "fly every rocket listed in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive the runs")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "fly perturbed copies of a rocket and summarise the spread",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addRocketFlags(cmd)
	cmd.Flags().IntVar(&trials, "trials", 100, "number of launches")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 uses GOMAXPROCS)")
	cmd.Flags().StringToStringVar(&spread, "spread", map[string]string{"pressure": "0.05", "water": "0.05"}, "relative spread per parameter")
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunScenario(ctx, sc, logger)
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FLIGHT\tMODEL\tHEIGHT\tRANGE\tFLIGHT TIME\tRUN")
	for _, r := range results {
		runID := "-"
		if st != nil {
			runID, err = st.Save(storage.RunInfo{
				Integrator: r.Config.Integrator,
				Design:     r.Config.Rocket,
				Config:     r.Config.SimConfig(),
			}, r.Result)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%.2fm\t%.2fm\t%.2fs\t%s\n",
			r.Name,
			r.Result.Model,
			r.Result.Metrics[metrics.NameMaxHeight],
			r.Result.Metrics[metrics.NameMaxRange],
			r.Result.Metrics[metrics.NameFlightTime],
			runID,
		)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	model := ""
	if len(args) > 0 {
		model = args[0]
	}
	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}

	rel := make(map[string]float64, len(spread))
	for name, v := range spread {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("spread %s: %w", name, err)
		}
		rel[name] = f
	}

	ctx, stop := signalContext()
	defer stop()

	res, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Model:   cfg.Model,
		Base:    cfg.Rocket,
		Spread:  rel,
		Trials:  trials,
		Seed:    seed,
		Workers: workers,
		Sim:     cfg.SimConfig(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d launches, %d invalid draws skipped\n\n", cfg.Model, len(res.Trials), res.Skipped)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range []string{
		metrics.NameMaxHeight,
		metrics.NameMaxRange,
		metrics.NameMaxSpeed,
		metrics.NameFlightTime,
	} {
		s, ok := automation.MonteCarloStats(res, name)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\n", s.Metric, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return w.Flush()
}
