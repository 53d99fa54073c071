package dynamo

import "fmt"

// Phase is a flight regime. Phases are ordered: a run only ever moves
// forward through them.
type Phase int

const (
	PhaseLaunchTube Phase = iota
	PhaseWater
	PhaseAir
	PhaseBallistic
	PhaseLanded
)

var phaseNames = [...]string{
	PhaseLaunchTube: "launch_tube",
	PhaseWater:      "water",
	PhaseAir:        "air",
	PhaseBallistic:  "ballistic",
	PhaseLanded:     "landed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Propelled reports whether water can still be leaving the nozzle.
func (p Phase) Propelled() bool {
	return p == PhaseLaunchTube || p == PhaseWater
}

func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase: %s", s)
}

func Phases() []Phase {
	return []Phase{PhaseLaunchTube, PhaseWater, PhaseAir, PhaseBallistic, PhaseLanded}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
