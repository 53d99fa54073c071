package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	p := physics.DefaultDesign().SI()

	for _, name := range []string{"vertical", "planar", "1d", "2d"} {
		m, err := r.GetModel(name, p)
		if err != nil {
			t.Fatalf("GetModel(%q): %v", name, err)
		}
		if m.Name() != r.Canonical(name) {
			t.Errorf("GetModel(%q) built %s", name, m.Name())
		}
	}

	if _, err := r.GetIntegrator("verlet"); err == nil {
		t.Error("expected unknown integrator error")
	}
	if got := r.ListModels(); len(got) != 2 || got[0] != "planar" {
		t.Errorf("ListModels() = %v", got)
	}
	if got := r.ListIntegrators(); len(got) != 1 || got[0] != "euler" {
		t.Errorf("ListIntegrators() = %v", got)
	}

	seen := map[string]bool{}
	for _, m := range r.DefaultMetrics(p) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}

func TestExperimentUnknownIntegrator(t *testing.T) {
	exp := New(Config{
		Model:      "vertical",
		Integrator: "rk4",
		Design:     physics.DefaultDesign(),
		Sim:        dynamo.DefaultConfig(),
	})
	if err := exp.Setup(); err == nil {
		t.Error("expected unknown integrator error")
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp := New(Config{Model: "vertical", Design: physics.DefaultDesign()})
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before Setup")
	}
}
