package metrics

import (
	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

// TimeToEmpty is the time of the first sample at or below the water
// threshold. A rocket that never empties reports the time of its last sample.
type TimeToEmpty struct {
	at      float64
	last    float64
	emptied bool
}

func NewTimeToEmpty() *TimeToEmpty { return &TimeToEmpty{} }

func (e *TimeToEmpty) Name() string { return NameTimeToEmpty }

func (e *TimeToEmpty) Observe(s dynamo.Sample) {
	e.last = s.Time
	if !e.emptied && s.WaterMass <= physics.WaterThreshold {
		e.at = s.Time
		e.emptied = true
	}
}

func (e *TimeToEmpty) Value() float64 {
	if !e.emptied {
		return e.last
	}
	return e.at
}

func (e *TimeToEmpty) Emptied() bool { return e.emptied }

func (e *TimeToEmpty) Reset() {
	*e = TimeToEmpty{}
}

// TubeExitSpeed is the fastest the rocket moved while still on the launch tube.
type TubeExitSpeed struct {
	speed float64
}

func NewTubeExitSpeed() *TubeExitSpeed { return &TubeExitSpeed{} }

func (t *TubeExitSpeed) Name() string { return NameTubeExitSpeed }

func (t *TubeExitSpeed) Observe(s dynamo.Sample) {
	if s.Phase == dynamo.PhaseLaunchTube && s.Speed() > t.speed {
		t.speed = s.Speed()
	}
}

func (t *TubeExitSpeed) Value() float64 { return t.speed }
func (t *TubeExitSpeed) Reset()         { t.speed = 0 }
