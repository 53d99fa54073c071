package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

func planarResult() *dynamo.Result {
	return &dynamo.Result{
		Model: "planar",
		Samples: []dynamo.Sample{
			{
				Time:       0,
				State:      dynamo.State{0, 0, 0, 0, 0.4985},
				Kinematics: dynamo.Kinematics{WaterMass: 0.4985},
				Pressure:   583958.2,
				Phase:      dynamo.PhaseLaunchTube,
			},
			{
				Time:       0.001,
				State:      dynamo.State{0.01, 0.01, 12.5, 12.5, 1.5e-5},
				Kinematics: dynamo.Kinematics{X: 0.01, Y: 0.01, VX: 12.5, VY: 12.5, WaterMass: 1.5e-5},
				Pressure:   120000,
				Phase:      dynamo.PhaseAir,
			},
		},
		Metrics: map[string]float64{"max_height": 7.25},
		Steps:   1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	design := physics.DefaultDesign()
	runID, err := st.Save(RunInfo{Integrator: "euler", Design: design, Config: dynamo.DefaultConfig()}, planarResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "planar_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != "planar" || meta.Integrator != "euler" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Design != design {
		t.Errorf("design not preserved: %+v", meta.Design)
	}
	if meta.Metrics["max_height"] != 7.25 {
		t.Errorf("expected max_height 7.25, got %f", meta.Metrics["max_height"])
	}

	res, err := st.LoadResult(runID)
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}
	want := planarResult()
	if len(res.Samples) != len(want.Samples) {
		t.Fatalf("expected %d samples, got %d", len(want.Samples), len(res.Samples))
	}
	for i, s := range res.Samples {
		w := want.Samples[i]
		if s.Time != w.Time || s.Kinematics != w.Kinematics || s.Pressure != w.Pressure || s.Phase != w.Phase {
			t.Errorf("sample %d: got %+v, want %+v", i, s, w)
		}
		for j := range w.State {
			if s.State[j] != w.State[j] {
				t.Errorf("sample %d state: got %v, want %v", i, s.State, w.State)
				break
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
	if _, err := st.Latest(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound on empty archive, got %v", err)
	}

	first, err := st.Save(RunInfo{}, planarResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunInfo{}, &dynamo.Result{Model: "vertical"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}

	latest, err := st.Latest()
	if err != nil || latest != second {
		t.Errorf("Latest() = %q, %v", latest, err)
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunInfo{}, planarResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		t.Fatalf("samples.csv not readable: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "time,x,y,vx,vy,water_mass,pressure,phase" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[2], ",air") {
		t.Errorf("expected phase name in last column, got %q", lines[2])
	}
}

func TestReadCSVVerticalState(t *testing.T) {
	in := "time,x,y,vx,vy,water_mass,pressure,phase\n0.5,0,3,0,-2,0,101325,ballistic\n"
	samples, err := ReadCSV(strings.NewReader(in), "vertical")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	s := samples[0]
	if len(s.State) != 3 || s.State[0] != 3 || s.State[1] != -2 {
		t.Errorf("unexpected vertical state %v", s.State)
	}

	if _, err := ReadCSV(strings.NewReader(strings.Replace(in, "ballistic", "orbit", 1)), "vertical"); err == nil {
		t.Error("expected error for unknown phase")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	design := physics.DefaultDesign()
	if err := ExportJSON(&buf, planarResult(), &design); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var out struct {
		Model   string `json:"model"`
		Samples []struct {
			Phase string `json:"phase"`
		} `json:"samples"`
		Design map[string]float64 `json:"design"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Model != "planar" || len(out.Samples) != 2 || out.Samples[1].Phase != "air" {
		t.Errorf("unexpected export: %+v", out)
	}
	if out.Design["pressure_psi"] != 70 {
		t.Errorf("design missing from export: %v", out.Design)
	}
}
