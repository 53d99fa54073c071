package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/waterrocket/internal/analysis"
	"github.com/san-kum/waterrocket/internal/config"
	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/experiment"
	"github.com/san-kum/waterrocket/internal/export"
	"github.com/san-kum/waterrocket/internal/optim"
	"github.com/san-kum/waterrocket/internal/report"
	"github.com/san-kum/waterrocket/internal/storage"
	"github.com/san-kum/waterrocket/internal/tui"
	"github.com/san-kum/waterrocket/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool
	logger   *slog.Logger

	dt         float64
	maxTime    float64
	configFile string
	preset     string
	noSave     bool
	live       bool
	realtime   bool
	frameRate  int

	// Rocket overrides
	pressure float64
	water    float64
	bottle   float64
	nozzle   float64
	dryMass  float64
	tube     float64
	drag     float64
	angle    float64

	series     string
	replay     bool
	chartWidth int
	chartRows  int
	svgOut     string
	svgWidth   int
	svgHeight  int
	svgBraille bool
	showPreset bool
	goal       string
)

// designFlags maps rocket flags to design parameter names.
var designFlags = map[string]string{
	"pressure": "pressure",
	"water":    "water",
	"bottle":   "bottle",
	"nozzle":   "nozzle",
	"dry-mass": "dry_mass",
	"tube":     "tube",
	"drag":     "drag",
	"angle":    "angle",
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if logJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func addRocketFlags(cmd *cobra.Command) {
	d := config.DefaultConfig().Rocket
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&pressure, "pressure", d.PressurePSI, "gauge pressure (psi)")
	cmd.Flags().Float64Var(&water, "water", d.WaterLiters, "water volume (L)")
	cmd.Flags().Float64Var(&bottle, "bottle", d.BottleLiters, "bottle volume (L)")
	cmd.Flags().Float64Var(&nozzle, "nozzle", d.NozzleCm2, "nozzle area (cm2)")
	cmd.Flags().Float64Var(&dryMass, "dry-mass", d.DryMassGrams, "dry mass (g)")
	cmd.Flags().Float64Var(&tube, "tube", d.TubeLength, "launch tube length (m)")
	cmd.Flags().Float64Var(&drag, "drag", d.DragCoeff, "drag coefficient")
	cmd.Flags().Float64Var(&angle, "angle", d.LaunchAngleDeg, "launch angle (deg, planar only)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultConfig().Dt, "timestep")
	cmd.Flags().Float64Var(&maxTime, "max-time", config.DefaultConfig().MaxTime, "time limit (s)")
}

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	registry := experiment.NewRegistry()
	cfg := config.DefaultConfig()
	if model != "" {
		cfg.Model = registry.Canonical(model)
	}

	if preset != "" {
		p := config.GetPreset(cfg.Model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if model != "" {
			cfg.Model = registry.Canonical(model)
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("max-time") {
		cfg.MaxTime = maxTime
	}

	values := map[string]float64{
		"pressure": pressure, "water": water, "bottle": bottle, "nozzle": nozzle,
		"dry-mass": dryMass, "tube": tube, "drag": drag, "angle": angle,
	}
	for flag, param := range designFlags {
		if cmd.Flags().Changed(flag) {
			if err := cfg.Rocket.SetParam(param, values[flag]); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// main registers the commands and falls back to the interactive menu when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "waterrocket",
		Short: "water rocket flight simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger()
		},
		RunE: runMenu,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "simulate one flight (vertical or planar)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRocketFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not archive the run")
	runCmd.Flags().BoolVar(&live, "live", false, "draw the flight while it is simulated")
	runCmd.Flags().BoolVar(&realtime, "realtime", true, "pace the live view at wall-clock speed")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "live view frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&series, "series", "", "single series to plot (height, range, speed, vy, water, pressure)")
	plotCmd.Flags().BoolVar(&replay, "replay", false, "replay the flight interactively")
	plotCmd.Flags().IntVar(&chartWidth, "width", 70, "chart width")
	plotCmd.Flags().IntVar(&chartRows, "height", 10, "chart height")

	burnCmd := &cobra.Command{
		Use:   "burn [run_id]",
		Short: "compare the burn with the rocket equation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  burnRun,
	}

	portraitCmd := &cobra.Command{
		Use:   "portrait [run_id]",
		Short: "height against vertical speed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  portraitRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "export the trajectory as SVG, colored by phase",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (stdout if empty)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	svgCmd.Flags().BoolVar(&svgBraille, "braille", false, "export the terminal braille plot instead of the phase-colored path")

	sweepCmd := &cobra.Command{
		Use:   "sweep [plan]",
		Short: "compare flights over one parameter (" + strings.Join(optim.PlanNames(), ", ") + ")",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRocketFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&goal, "goal", "", "override the plan's goal (max or min)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model] [preset]",
		Short: "list available presets for a model",
		Args:  cobra.RangeArgs(0, 2),
		RunE:  listPresets,
	}
	presetsCmd.Flags().BoolVar(&showPreset, "show", false, "print the preset as a config file")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "interactive rocket menu",
		RunE:  runMenu,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, burnCmd, portraitCmd, exportCSVCmd, exportJSONCmd, svgCmd, sweepCmd, presetsCmd, newScenarioCmd(), newMonteCarloCmd(), newServeCmd(), menuCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	model := ""
	if len(args) > 0 {
		model = args[0]
	}
	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	exp := experiment.New(experiment.Config{
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Design:     cfg.Rocket,
		Sim:        cfg.SimConfig(),
	})
	if err := exp.Setup(); err != nil {
		return err
	}

	if live {
		r := tui.NewLiveRenderer(os.Stdout, cfg.Model, frameRate, realtime)
		r.Start()
		defer r.Stop()
		exp.Simulator().AddObserver(r)
	}

	logger.Info("running simulation", "model", cfg.Model, "dt", cfg.Dt, "max_time", cfg.MaxTime)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("simulation done", "steps", result.Steps, "elapsed", time.Since(start))

	fmt.Println(report.Summarize(result, cfg.Rocket.SI()).Render())
	fmt.Println(viz.Trajectory(result, 60, 12))

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{Integrator: cfg.Integrator, Design: cfg.Rocket, Config: cfg.SimConfig()}, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

// resolveRun returns the given run id, or the latest archived run.
func resolveRun(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return st.Latest()
}

func loadRun(args []string) (*storage.RunMetadata, *storage.Store, error) {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, st, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tPSI\tWATER\tHEIGHT\tRANGE\tFLIGHT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.2fL\t%.2fm\t%.2fm\t%.2fs\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Design.PressurePSI,
			run.Design.WaterLiters,
			run.Metrics["max_height"],
			run.Metrics["max_range"],
			run.Metrics["flight_time"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, st, err := loadRun(args)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if replay {
		return viz.Play(result)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(result.Samples))

	if series != "" {
		s, err := viz.GetSeries(series)
		if err != nil {
			return err
		}
		fmt.Println(viz.Chart(result, s, chartWidth, chartRows))
		return nil
	}

	fmt.Println(viz.Trajectory(result, chartWidth, chartRows))
	fmt.Println(viz.Dashboard(result, chartWidth, chartRows))
	return nil
}

func burnRun(cmd *cobra.Command, args []string) error {
	meta, st, err := loadRun(args)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return err
	}

	curve := analysis.Tsiolkovsky(result, meta.Design.SI())
	if len(curve) < 2 {
		return fmt.Errorf("run %s has no thrusting samples", meta.ID)
	}

	fmt.Println(viz.BurnComparison(result, curve, 70, 12))
	fmt.Printf("\nrocket equation burnout speed: %.2f m/s (simulated peak %.2f m/s)\n",
		curve[len(curve)-1].Speed, meta.Metrics["max_speed"])
	return nil
}

func portraitRun(cmd *cobra.Command, args []string) error {
	meta, st, err := loadRun(args)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return err
	}

	p := analysis.GeneratePortrait(result,
		"vy (m/s)", func(s dynamo.Sample) float64 { return s.VY },
		"height (m)", func(s dynamo.Sample) float64 { return s.Y },
	)
	fmt.Printf("phase portrait: %s\n\n", meta.ID)
	fmt.Println(analysis.PortraitToASCII(p, 70, 20))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, st, err := loadRun(args)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, result.Samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, st, err := loadRun(args)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, result, &meta.Design)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, st, err := loadRun(args)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return err
	}

	svg := export.TrajectorySVG(result, svgWidth, svgHeight)
	if svgBraille {
		svg = export.BrailleSVG(result, svgWidth, svgHeight)
	}
	if svg == "" {
		return fmt.Errorf("run %s is too short to draw", meta.ID)
	}
	if svgOut == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, "")
	if err != nil {
		return err
	}

	plan, err := optim.GetPlan(args[0], cfg.Rocket)
	if err != nil {
		return err
	}
	if goal != "" {
		if plan.Goal, err = optim.ParseGoal(goal); err != nil {
			return err
		}
	}

	ctx, stop := signalContext()
	defer stop()

	out, err := optim.Sweep(ctx, cfg.Rocket, plan, logger)
	if err != nil {
		return err
	}
	fmt.Println(report.Sweep(out, plan.Param))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, model := range config.ListModels() {
			fmt.Printf("%s: %s\n", model, strings.Join(config.ListPresets(model), ", "))
		}
		return nil
	}

	model := experiment.NewRegistry().Canonical(args[0])
	if len(args) == 2 {
		p := config.GetPreset(model, args[1])
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", args[1], config.ListPresets(model))
		}
		if showPreset {
			return yaml.NewEncoder(os.Stdout).Encode(p)
		}
		result, err := experiment.Run(cmd.Context(), p.Model, p.Rocket, p.SimConfig())
		if err != nil {
			return err
		}
		fmt.Println(report.Summarize(result, p.Rocket.SI()).Render())
		return nil
	}

	presets := config.ListPresets(model)
	if len(presets) == 0 {
		fmt.Printf("no presets for model: %s\n", model)
		return nil
	}
	fmt.Printf("presets for %s:\n", model)
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()
	return tui.RunInteractive(ctx, config.DefaultConfig().Rocket, config.DefaultConfig().SimConfig(), logger)
}
