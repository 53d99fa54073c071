package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

// PhaseDurations sums the time between consecutive samples, attributed to
// the phase of the earlier sample.
func PhaseDurations(res *dynamo.Result) map[dynamo.Phase]float64 {
	out := make(map[dynamo.Phase]float64)
	for i := 1; i < len(res.Samples); i++ {
		prev := res.Samples[i-1]
		out[prev.Phase] += res.Samples[i].Time - prev.Time
	}
	return out
}

type CurvePoint struct {
	Time  float64 `json:"time"`
	Speed float64 `json:"speed"`
}

// minMass keeps the logarithm finite once the linear burn model runs dry.
const minMass = 1e-9

// Tsiolkovsky returns the rocket-equation speed over the thrusting samples
// of res, assuming the exit speed stays at its initial value (constant
// pressure) and the water drains linearly. Time is absolute; the burn clock
// starts at the first thrusting sample.
func Tsiolkovsky(res *dynamo.Result, p physics.Params) []CurvePoint {
	ue := physics.EscapeVelocity(p.InitialPressure, 0, p)
	m0w := p.InitialWaterMass()
	mdot := physics.WaterDensity * p.NozzleArea * ue

	var (
		out   []CurvePoint
		start float64
		vi    float64
	)
	for _, s := range res.Samples {
		if !s.Phase.Propelled() || s.WaterMass <= physics.WaterThreshold {
			continue
		}
		if out == nil {
			start = s.Time
			vi = s.Speed()
		}

		mw := math.Max(m0w-mdot*(s.Time-start), minMass)
		v := vi + ue*math.Log((p.DryMass+m0w)/(p.DryMass+mw))
		out = append(out, CurvePoint{Time: s.Time, Speed: v})
	}
	return out
}

// IsUnimodal reports whether values rise (weakly) to a single peak and then
// fall (weakly). Monotonic sequences are unimodal with the peak at an end.
func IsUnimodal(values []float64) bool {
	if len(values) < 3 {
		return true
	}

	i := floats.MaxIdx(values)
	for j := 1; j <= i; j++ {
		if values[j] < values[j-1] {
			return false
		}
	}
	for j := i + 1; j < len(values); j++ {
		if values[j] > values[j-1] {
			return false
		}
	}
	return true
}

// HasInteriorPeak reports whether the maximum of values is strictly inside
// the sequence and the curve is unimodal around it.
func HasInteriorPeak(values []float64) bool {
	if len(values) < 3 {
		return false
	}
	i := floats.MaxIdx(values)
	return i > 0 && i < len(values)-1 && IsUnimodal(values)
}
