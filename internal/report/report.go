// Package report summarises finished flights and sweeps for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/waterrocket/internal/analysis"
	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/metrics"
	"github.com/san-kum/waterrocket/internal/optim"
	"github.com/san-kum/waterrocket/internal/physics"
	"github.com/san-kum/waterrocket/internal/viz"
)

type Summary struct {
	Model          string                   `json:"model"`
	MaxHeight      float64                  `json:"max_height"`
	MaxSpeed       float64                  `json:"max_speed"`
	MaxRange       float64                  `json:"max_range"`
	ApogeeTime     float64                  `json:"apogee_time"`
	TimeToEmpty    float64                  `json:"time_to_empty"`
	Emptied        bool                     `json:"emptied"`
	FlightTime     float64                  `json:"flight_time"`
	TubeExitSpeed  float64                  `json:"tube_exit_speed"`
	PressureEnergy float64                  `json:"pressure_energy"`
	KineticEnergy  float64                  `json:"kinetic_energy"`
	Efficiency     float64                  `json:"efficiency"`
	Phases         map[dynamo.Phase]float64 `json:"phases"`
	Truncated      bool                     `json:"truncated"`
}

// Summarize recomputes every flight figure from the samples of res, so a
// result loaded back from storage summarises the same as a fresh one.
func Summarize(res *dynamo.Result, p physics.Params) Summary {
	height := metrics.NewMaxHeight()
	speed := metrics.NewMaxSpeed()
	rng := metrics.NewMaxRange()
	apogee := metrics.NewApogeeTime()
	empty := metrics.NewTimeToEmpty()
	flight := metrics.NewFlightTime()
	exit := metrics.NewTubeExitSpeed()
	eff := metrics.NewEfficiency(p)

	all := []dynamo.Metric{height, speed, rng, apogee, empty, flight, exit, eff}
	for _, s := range res.Samples {
		for _, m := range all {
			m.Observe(s)
		}
	}

	return Summary{
		Model:          res.Model,
		MaxHeight:      height.Value(),
		MaxSpeed:       speed.Value(),
		MaxRange:       rng.Value(),
		ApogeeTime:     apogee.Value(),
		TimeToEmpty:    empty.Value(),
		Emptied:        empty.Emptied(),
		FlightTime:     flight.Value(),
		TubeExitSpeed:  exit.Value(),
		PressureEnergy: metrics.PressureEnergy(p),
		KineticEnergy:  metrics.KineticEnergy(p, speed.Value()),
		Efficiency:     eff.Value(),
		Phases:         analysis.PhaseDurations(res),
		Truncated:      res.Truncated,
	}
}

func row(label, value string) string {
	return viz.MetricLabel.Render(label) + viz.MetricValue.Render(value) + "\n"
}

// Render lays the summary out as a labelled panel.
func (s Summary) Render() string {
	var b strings.Builder
	b.WriteString(viz.GradientTitle.Render(strings.ToUpper(s.Model)+" FLIGHT") + "\n\n")

	b.WriteString(row("Max height", fmt.Sprintf("%.2f m", s.MaxHeight)))
	b.WriteString(row("Apogee at", fmt.Sprintf("%.3f s", s.ApogeeTime)))
	b.WriteString(row("Max speed", fmt.Sprintf("%.2f m/s", s.MaxSpeed)))
	if s.Model != "vertical" {
		b.WriteString(row("Max range", fmt.Sprintf("%.2f m", s.MaxRange)))
	}
	b.WriteString(row("Tube exit speed", fmt.Sprintf("%.2f m/s", s.TubeExitSpeed)))
	empty := fmt.Sprintf("%.3f s", s.TimeToEmpty)
	if !s.Emptied {
		empty += " (never emptied)"
	}
	b.WriteString(row("Time to empty", empty))
	flight := fmt.Sprintf("%.3f s", s.FlightTime)
	if s.Truncated {
		flight += " (time limit)"
	}
	b.WriteString(row("Flight time", flight))

	b.WriteString("\n" + viz.Separator(36) + "\n\n")
	b.WriteString(row("Pressure energy", fmt.Sprintf("%.1f J", s.PressureEnergy)))
	b.WriteString(row("Kinetic energy", fmt.Sprintf("%.1f J", s.KineticEnergy)))
	b.WriteString(row("Efficiency (approx.)", fmt.Sprintf("%.1f %%", s.Efficiency*100)))
	b.WriteString(viz.ProgressBar(min(s.Efficiency, 1), 30) + "\n")

	b.WriteString("\n" + viz.Separator(36) + "\n\n")
	for _, p := range dynamo.Phases() {
		d, ok := s.Phases[p]
		if !ok {
			continue
		}
		b.WriteString(viz.MetricLabel.Render(p.String()) + viz.PhaseBadge(p) + fmt.Sprintf(" %.3f s", d) + "\n")
	}

	return viz.GlassPanel.Render(strings.TrimRight(b.String(), "\n"))
}

// Sweep tabulates a ranked outcome, marking the best point.
func Sweep(o *optim.Outcome, param string) string {
	var b strings.Builder
	title := fmt.Sprintf("%s sweep: %s %s", o.Model, o.Goal, o.Metric)
	b.WriteString(viz.HeaderStyle.Render(title) + "\n")
	b.WriteString(viz.Sparkline(o.Values()) + "\n\n")

	for i, pt := range o.Points {
		marker := "  "
		value := viz.MetricValue
		if i == o.BestIndex {
			marker = "▶ "
			value = value.Foreground(lipgloss.Color("#00ff88"))
		}
		b.WriteString(marker + viz.MetricLabel.Render(fmt.Sprintf("%s = %g", param, pt.Params[param])) +
			value.Render(fmt.Sprintf("%.3f", pt.Value)) + "\n")
	}
	if o.Skipped > 0 {
		b.WriteString(viz.Subtle.Render(fmt.Sprintf("%d invalid designs skipped", o.Skipped)) + "\n")
	}

	best := o.Best()
	b.WriteString("\n" + viz.GradientTitle.Render(fmt.Sprintf("best %s = %g (%s %.3f)", param, best.Params[param], o.Metric, best.Value)))
	return b.String()
}
