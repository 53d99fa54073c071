package physics

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

const maxPressurePSI = 150.0

// Design is a rocket described in the units people build rockets in.
type Design struct {
	PressurePSI    float64 `yaml:"pressure_psi" json:"pressure_psi"`
	BottleLiters   float64 `yaml:"bottle_liters" json:"bottle_liters"`
	WaterLiters    float64 `yaml:"water_liters" json:"water_liters"`
	NozzleCm2      float64 `yaml:"nozzle_cm2" json:"nozzle_cm2"`
	BottleCm2      float64 `yaml:"bottle_cm2" json:"bottle_cm2"`
	DryMassGrams   float64 `yaml:"dry_mass_g" json:"dry_mass_g"`
	TubeLength     float64 `yaml:"tube_length_m" json:"tube_length_m"`
	DragCoeff      float64 `yaml:"drag_coeff" json:"drag_coeff"`
	RefAreaCm2     float64 `yaml:"ref_area_cm2" json:"ref_area_cm2"`
	LaunchAngleDeg float64 `yaml:"launch_angle_deg" json:"launch_angle_deg"`
}

func DefaultDesign() Design {
	return Design{
		PressurePSI:    70,
		BottleLiters:   2.0,
		WaterLiters:    0.5,
		NozzleCm2:      4.5,
		BottleCm2:      95,
		DryMassGrams:   55,
		TubeLength:     1.0,
		DragCoeff:      0.75,
		RefAreaCm2:     100,
		LaunchAngleDeg: 45,
	}
}

// Params is the SI form of a Design. Pressure is absolute.
type Params struct {
	InitialPressure float64 // Pa
	BottleVolume    float64 // m^3
	WaterVolume     float64 // m^3
	NozzleArea      float64 // m^2
	BottleArea      float64 // m^2
	DryMass         float64 // kg
	TubeLength      float64 // m
	DragCoeff       float64
	RefArea         float64 // m^2
	LaunchAngle     float64 // rad
}

func (p Params) InitialWaterMass() float64 {
	return p.WaterVolume * WaterDensity
}

// SI converts gauge psi to absolute pascals, liters to m^3, cm^2 to m^2,
// grams to kg and degrees to radians.
func (d Design) SI() Params {
	return Params{
		InitialPressure: d.PressurePSI*PSIToPascal + AtmPressure,
		BottleVolume:    d.BottleLiters / 1000,
		WaterVolume:     d.WaterLiters / 1000,
		NozzleArea:      d.NozzleCm2 / 10000,
		BottleArea:      d.BottleCm2 / 10000,
		DryMass:         d.DryMassGrams / 1000,
		TubeLength:      d.TubeLength,
		DragCoeff:       d.DragCoeff,
		RefArea:         d.RefAreaCm2 / 10000,
		LaunchAngle:     d.LaunchAngleDeg * math.Pi / 180,
	}
}

func FromSI(p Params) Design {
	return Design{
		PressurePSI:    (p.InitialPressure - AtmPressure) / PSIToPascal,
		BottleLiters:   p.BottleVolume * 1000,
		WaterLiters:    p.WaterVolume * 1000,
		NozzleCm2:      p.NozzleArea * 10000,
		BottleCm2:      p.BottleArea * 10000,
		DryMassGrams:   p.DryMass * 1000,
		TubeLength:     p.TubeLength,
		DragCoeff:      p.DragCoeff,
		RefAreaCm2:     p.RefArea * 10000,
		LaunchAngleDeg: p.LaunchAngle * 180 / math.Pi,
	}
}

// Validate checks every field against its physical range and reports all
// violations at once. Each error wraps dynamo.ErrParameterBounds.
func (d Design) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{dynamo.ErrParameterBounds}, args...)...))
	}

	if d.PressurePSI <= 0 || d.PressurePSI > maxPressurePSI {
		bad("pressure must be in (0, %.0f] psi, got %g", maxPressurePSI, d.PressurePSI)
	}
	if d.BottleLiters <= 0 {
		bad("bottle volume must be positive, got %g L", d.BottleLiters)
	}
	if d.WaterLiters <= 0 || d.WaterLiters >= d.BottleLiters {
		bad("water volume must be in (0, %g) L, got %g", d.BottleLiters, d.WaterLiters)
	}
	if d.BottleCm2 <= 0 {
		bad("bottle area must be positive, got %g cm2", d.BottleCm2)
	}
	if d.NozzleCm2 <= 0 || d.NozzleCm2 >= d.BottleCm2 {
		bad("nozzle area must be in (0, %g) cm2, got %g", d.BottleCm2, d.NozzleCm2)
	}
	if d.DryMassGrams <= 0 {
		bad("dry mass must be positive, got %g g", d.DryMassGrams)
	}
	if d.TubeLength < 0 {
		bad("tube length must not be negative, got %g m", d.TubeLength)
	}
	if d.DragCoeff < 0 {
		bad("drag coefficient must not be negative, got %g", d.DragCoeff)
	}
	if d.RefAreaCm2 < 0 {
		bad("reference area must not be negative, got %g cm2", d.RefAreaCm2)
	}
	if d.LaunchAngleDeg <= 0 || d.LaunchAngleDeg > 90 {
		bad("launch angle must be in (0, 90] deg, got %g", d.LaunchAngleDeg)
	}

	return errors.Join(errs...)
}

func (d Design) GetParams() map[string]float64 {
	return map[string]float64{
		"pressure":    d.PressurePSI,
		"bottle":      d.BottleLiters,
		"water":       d.WaterLiters,
		"nozzle":      d.NozzleCm2,
		"bottle_area": d.BottleCm2,
		"dry_mass":    d.DryMassGrams,
		"tube":        d.TubeLength,
		"drag":        d.DragCoeff,
		"ref_area":    d.RefAreaCm2,
		"angle":       d.LaunchAngleDeg,
	}
}

// SetParam updates one field by its short name. The result is not validated.
func (d *Design) SetParam(name string, value float64) error {
	switch name {
	case "pressure":
		d.PressurePSI = value
	case "bottle":
		d.BottleLiters = value
	case "water":
		d.WaterLiters = value
	case "nozzle":
		d.NozzleCm2 = value
	case "bottle_area":
		d.BottleCm2 = value
	case "dry_mass":
		d.DryMassGrams = value
	case "tube":
		d.TubeLength = value
	case "drag":
		d.DragCoeff = value
	case "ref_area":
		d.RefAreaCm2 = value
	case "angle":
		d.LaunchAngleDeg = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, 10)
	for name := range DefaultDesign().GetParams() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var paramUnits = map[string]string{
	"pressure":    "psi",
	"bottle":      "L",
	"water":       "L",
	"nozzle":      "cm2",
	"bottle_area": "cm2",
	"dry_mass":    "g",
	"tube":        "m",
	"drag":        "",
	"ref_area":    "cm2",
	"angle":       "deg",
}

func ParamUnit(name string) string {
	return paramUnits[name]
}
