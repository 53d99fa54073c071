package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/waterrocket/internal/analysis"
	"github.com/san-kum/waterrocket/internal/dynamo"
)

// Series is one plottable quantity of a flight.
type Series struct {
	Name    string
	Caption string
	Value   func(dynamo.Sample) float64
}

var (
	SeriesHeight = Series{"height", "height (m)", func(s dynamo.Sample) float64 { return s.Y }}
	SeriesRange  = Series{"range", "range (m)", func(s dynamo.Sample) float64 { return s.X }}
	SeriesSpeed  = Series{"speed", "speed (m/s)", func(s dynamo.Sample) float64 { return s.Speed() }}
	SeriesVY     = Series{"vy", "vertical velocity (m/s)", func(s dynamo.Sample) float64 { return s.VY }}
	SeriesWater  = Series{"water", "water mass (kg)", func(s dynamo.Sample) float64 { return s.WaterMass }}
	SeriesPress  = Series{"pressure", "pressure (kPa)", func(s dynamo.Sample) float64 { return s.Pressure / 1000 }}
)

var allSeries = []Series{SeriesHeight, SeriesRange, SeriesSpeed, SeriesVY, SeriesWater, SeriesPress}

func GetSeries(name string) (Series, error) {
	for _, s := range allSeries {
		if s.Name == name {
			return s, nil
		}
	}
	names := make([]string, len(allSeries))
	for i, s := range allSeries {
		names[i] = s.Name
	}
	return Series{}, fmt.Errorf("unknown series: %s (available: %s)", name, strings.Join(names, ", "))
}

// Resample picks n evenly spaced values, always keeping the first and last.
func Resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	if n == 1 {
		return values[:1]
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = values[i*(len(values)-1)/(n-1)]
	}
	return out
}

// Chart plots one series of a flight against sample index.
func Chart(res *dynamo.Result, s Series, width, height int) string {
	if len(res.Samples) < 2 {
		return ""
	}
	data := Resample(res.Series(s.Value), width)
	caption := fmt.Sprintf("%s over %.2fs", s.Caption, res.Last().Time)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	)
}

// DefaultSeries lists what a dashboard shows for the given model.
func DefaultSeries(model string) []Series {
	if model == "vertical" {
		return []Series{SeriesHeight, SeriesVY, SeriesPress, SeriesWater}
	}
	return []Series{SeriesHeight, SeriesRange, SeriesSpeed, SeriesPress}
}

// Dashboard stacks the default charts of a flight.
func Dashboard(res *dynamo.Result, width, height int) string {
	var b strings.Builder
	for _, s := range DefaultSeries(res.Model) {
		b.WriteString(GraphStyle.Render(Chart(res, s, width, height)))
		b.WriteString("\n")
	}
	return b.String()
}

// BurnComparison overlays the simulated speed during the burn with the
// constant-pressure rocket-equation estimate.
func BurnComparison(res *dynamo.Result, curve []analysis.CurvePoint, width, height int) string {
	if len(curve) < 2 {
		return ""
	}

	start, end := curve[0].Time, curve[len(curve)-1].Time
	var simulated []float64
	for _, s := range res.Samples {
		if s.Time >= start && s.Time <= end {
			simulated = append(simulated, s.Speed())
		}
	}
	estimate := make([]float64, len(curve))
	for i, pt := range curve {
		estimate[i] = pt.Speed
	}

	return asciigraph.PlotMany(
		[][]float64{Resample(simulated, width), Resample(estimate, width)},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.Caption("burn speed (m/s): simulated vs rocket equation"),
	)
}
