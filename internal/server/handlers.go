package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/san-kum/waterrocket/internal/config"
	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/experiment"
	"github.com/san-kum/waterrocket/internal/metrics"
	"github.com/san-kum/waterrocket/internal/optim"
	"github.com/san-kum/waterrocket/internal/physics"
	"github.com/san-kum/waterrocket/internal/report"
	"github.com/san-kum/waterrocket/internal/storage"
)

const (
	// maxSteps bounds the work a single request may ask for.
	maxSteps          = 1_000_000
	defaultMaxSamples = 500
	maxBodyBytes      = 64 << 10

	// invalidModel labels flights whose model name did not resolve, so
	// client input never becomes a label value.
	invalidModel = "invalid"
)

type simulateRequest struct {
	Model      string          `json:"model"`
	Preset     string          `json:"preset"`
	Design     json.RawMessage `json:"design"`
	Dt         float64         `json:"dt"`
	MaxTime    float64         `json:"max_time"`
	MaxSamples int             `json:"max_samples"`
}

type simulateResponse struct {
	Model     string                 `json:"model"`
	Design    physics.Design         `json:"design"`
	Summary   report.Summary         `json:"summary"`
	Metrics   map[string]float64     `json:"metrics"`
	Steps     int                    `json:"steps"`
	Truncated bool                   `json:"truncated"`
	Samples   []storage.ExportSample `json:"samples"`
}

type sweepRequest struct {
	Plan   string          `json:"plan"`
	Design json.RawMessage `json:"design"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors to client errors; anything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dynamo.ErrParameterBounds),
		errors.Is(err, dynamo.ErrUnknownModel),
		errors.Is(err, dynamo.ErrInvalidConfig),
		errors.Is(err, optim.ErrNoCandidates):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decode reads a size-limited JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// modelLabel returns the registered model name for name, or invalidModel.
func modelLabel(name string) string {
	reg := experiment.NewRegistry()
	c := reg.Canonical(name)
	for _, m := range reg.ListModels() {
		if m == c {
			return c
		}
	}
	return invalidModel
}

// resolveDesign starts from the preset (or the default rocket) and overlays
// whatever fields the request sent.
func resolveDesign(model, preset string, raw json.RawMessage) (physics.Design, error) {
	d := physics.DefaultDesign()
	if preset != "" {
		cfg := config.GetPreset(model, preset)
		if cfg == nil {
			return d, fmt.Errorf("unknown preset %q for model %s", preset, model)
		}
		d = cfg.Rocket
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return d, fmt.Errorf("invalid design: %w", err)
		}
	}
	return d, nil
}

// thin keeps at most n evenly spaced samples, always including the last.
func thin(samples []storage.ExportSample, n int) []storage.ExportSample {
	if n <= 0 || len(samples) <= n {
		return samples
	}
	stride := (len(samples) + n - 1) / n
	out := make([]storage.ExportSample, 0, n+1)
	for i := 0; i < len(samples); i += stride {
		out = append(out, samples[i])
	}
	if last := samples[len(samples)-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, bodyStatus(err), err)
		return
	}
	if req.Model == "" {
		req.Model = config.DefaultModel
	}

	d, err := resolveDesign(req.Model, req.Preset, req.Design)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := dynamo.DefaultConfig()
	if req.Dt > 0 {
		cfg.Dt = req.Dt
	}
	if req.MaxTime > 0 {
		cfg.MaxTime = req.MaxTime
	}
	if cfg.MaxTime/cfg.Dt > maxSteps {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":     "requested run exceeds step budget",
			"max_steps": maxSteps,
		})
		return
	}

	res, err := experiment.Run(r.Context(), req.Model, d, cfg)
	if err != nil {
		label := modelLabel(req.Model)
		if errors.Is(err, dynamo.ErrUnknownModel) {
			label = invalidModel
		}
		s.metrics.flightsTotal.WithLabelValues(label, "error").Inc()
		s.logger.Warn("simulation failed", "model", req.Model, "err", err)
		writeError(w, statusFor(err), err)
		return
	}

	outcome := "landed"
	if res.Truncated {
		outcome = "truncated"
	}
	s.metrics.flightsTotal.WithLabelValues(res.Model, outcome).Inc()
	s.metrics.flightHeightMeters.WithLabelValues(res.Model).Observe(res.Metrics[metrics.NameMaxHeight])

	maxSamples := req.MaxSamples
	if maxSamples == 0 {
		maxSamples = defaultMaxSamples
	}
	data := storage.NewExportData(res, &d)

	writeJSON(w, http.StatusOK, simulateResponse{
		Model:     res.Model,
		Design:    d,
		Summary:   report.Summarize(res, d.SI()),
		Metrics:   res.Metrics,
		Steps:     res.Steps,
		Truncated: res.Truncated,
		Samples:   thin(data.Samples, maxSamples),
	})
}

func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, bodyStatus(err), err)
		return
	}

	base, err := resolveDesign(config.DefaultModel, "", req.Design)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	plan, err := optim.GetPlan(req.Plan, base)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.metrics.sweepsTotal.WithLabelValues(plan.Name).Inc()
	out, err := optim.NewGridSearch(plan.Model, base, []string{plan.Param}, [][]float64{plan.Values}).
		WithWorkers(s.workers).
		WithLogger(s.logger).
		Search(r.Context(), plan.Metric, plan.Goal)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"plan":    plan,
		"outcome": out,
	})
}

func (s *Server) listPresets(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]string)
	for _, model := range config.ListModels() {
		out[model] = config.ListPresets(model)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getPreset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cfg := config.GetPreset(vars["model"], vars["name"])
	if cfg == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown preset %s/%s", vars["model"], vars["name"]))
		return
	}
	writeJSON(w, http.StatusOK, cfg.Rocket)
}
