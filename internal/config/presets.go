package config

import (
	"sort"

	"github.com/san-kum/waterrocket/internal/physics"
)

func rocket(mutate func(*physics.Design)) physics.Design {
	d := physics.DefaultDesign()
	if mutate != nil {
		mutate(&d)
	}
	return d
}

var Presets = map[string]map[string]*Config{
	"vertical": {
		"default": {
			Model: "vertical", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(nil),
		},
		"low_pressure": {
			Model: "vertical", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(func(d *physics.Design) { d.PressurePSI = 40 }),
		},
		"high_pressure": {
			Model: "vertical", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(func(d *physics.Design) { d.PressurePSI = 100 }),
		},
		"best_water": {
			Model: "vertical", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(func(d *physics.Design) { d.WaterLiters = 0.7 }),
		},
		"heavy": {
			Model: "vertical", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(func(d *physics.Design) { d.DryMassGrams = 150 }),
		},
		"short_tube": {
			Model: "vertical", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(func(d *physics.Design) { d.TubeLength = 0.2 }),
		},
	},
	"planar": {
		"default": {
			Model: "planar", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(nil),
		},
		"lob": {
			Model: "planar", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(func(d *physics.Design) { d.LaunchAngleDeg = 30 }),
		},
		"steep": {
			Model: "planar", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(func(d *physics.Design) { d.LaunchAngleDeg = 75 }),
		},
		"long_range": {
			Model: "planar", Integrator: "euler", Dt: 0.001, MaxTime: 100,
			Rocket: rocket(func(d *physics.Design) {
				d.LaunchAngleDeg = 35
				d.PressurePSI = 100
				d.WaterLiters = 0.7
			}),
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	c.DataDir = DefaultDataDir
	c.Server = ServerConfig{Addr: DefaultAddr}
	return &c
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListModels() []string {
	models := make([]string, 0, len(Presets))
	for m := range Presets {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
