package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/physics"
)

type ExportSample struct {
	Time      float64      `json:"time"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	VX        float64      `json:"vx"`
	VY        float64      `json:"vy"`
	WaterMass float64      `json:"water_mass"`
	Pressure  float64      `json:"pressure"`
	Phase     dynamo.Phase `json:"phase"`
}

type ExportData struct {
	Model     string             `json:"model"`
	Design    *physics.Design    `json:"design,omitempty"`
	Steps     int                `json:"steps"`
	Truncated bool               `json:"truncated"`
	Metrics   map[string]float64 `json:"metrics"`
	Samples   []ExportSample     `json:"samples"`
}

func NewExportData(result *dynamo.Result, design *physics.Design) ExportData {
	data := ExportData{
		Model:     result.Model,
		Design:    design,
		Steps:     result.Steps,
		Truncated: result.Truncated,
		Metrics:   result.Metrics,
		Samples:   make([]ExportSample, len(result.Samples)),
	}
	for i, s := range result.Samples {
		data.Samples[i] = ExportSample{
			Time:      s.Time,
			X:         s.X,
			Y:         s.Y,
			VX:        s.VX,
			VY:        s.VY,
			WaterMass: s.WaterMass,
			Pressure:  s.Pressure,
			Phase:     s.Phase,
		}
	}
	return data
}

func ExportJSON(w io.Writer, result *dynamo.Result, design *physics.Design) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(result, design))
}
