package metrics

import (
	"math"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

const (
	NameMaxHeight     = "max_height"
	NameMaxSpeed      = "max_speed"
	NameMaxRange      = "max_range"
	NameFlightTime    = "flight_time"
	NameApogeeTime    = "apogee_time"
	NameTimeToEmpty   = "time_to_empty"
	NameTubeExitSpeed = "tube_exit_speed"
	NameEfficiency    = "efficiency"
)

// peak tracks the largest value of one quantity.
type peak struct {
	name string
	of   func(dynamo.Sample) float64
	max  float64
	seen bool
}

func (p *peak) Name() string { return p.name }

func (p *peak) Observe(s dynamo.Sample) {
	v := p.of(s)
	if !p.seen || v > p.max {
		p.max = v
		p.seen = true
	}
}

func (p *peak) Value() float64 {
	if !p.seen {
		return 0
	}
	return p.max
}

func (p *peak) Reset() {
	p.max = 0
	p.seen = false
}

func NewMaxHeight() dynamo.Metric {
	return &peak{name: NameMaxHeight, of: func(s dynamo.Sample) float64 { return s.Y }}
}

func NewMaxSpeed() dynamo.Metric {
	return &peak{name: NameMaxSpeed, of: func(s dynamo.Sample) float64 { return s.Speed() }}
}

// NewMaxRange tracks the largest horizontal distance from the pad.
func NewMaxRange() dynamo.Metric {
	return &peak{name: NameMaxRange, of: func(s dynamo.Sample) float64 { return math.Abs(s.X) }}
}

// FlightTime is the time of the last sample.
type FlightTime struct {
	last float64
}

func NewFlightTime() *FlightTime { return &FlightTime{} }

func (f *FlightTime) Name() string            { return NameFlightTime }
func (f *FlightTime) Observe(s dynamo.Sample) { f.last = s.Time }
func (f *FlightTime) Value() float64          { return f.last }
func (f *FlightTime) Reset()                  { f.last = 0 }

// ApogeeTime is the time at which the highest point was recorded.
type ApogeeTime struct {
	height float64
	at     float64
}

func NewApogeeTime() *ApogeeTime { return &ApogeeTime{} }

func (a *ApogeeTime) Name() string { return NameApogeeTime }

func (a *ApogeeTime) Observe(s dynamo.Sample) {
	if s.Y > a.height {
		a.height = s.Y
		a.at = s.Time
	}
}

func (a *ApogeeTime) Value() float64 { return a.at }

func (a *ApogeeTime) Reset() {
	a.height = 0
	a.at = 0
}
