package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/waterrocket/internal/dynamo"
)

var csvHeader = []string{"time", "x", "y", "vx", "vy", "water_mass", "pressure", "phase"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per sample. The layout is the same for both flight
// models; vertical flights have zero x and vx.
func WriteCSV(w io.Writer, samples []dynamo.Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			formatFloat(s.Time),
			formatFloat(s.X),
			formatFloat(s.Y),
			formatFloat(s.VX),
			formatFloat(s.VY),
			formatFloat(s.WaterMass),
			formatFloat(s.Pressure),
			s.Phase.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by WriteCSV and rebuilds each sample's state in
// the layout of the named model.
func ReadCSV(r io.Reader, model string) ([]dynamo.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Sample{}, nil
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [7]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, %s: %w", i+1, csvHeader[j], err)
			}
			vals[j] = v
		}

		phase, err := dynamo.ParsePhase(record[7])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		k := dynamo.Kinematics{X: vals[1], Y: vals[2], VX: vals[3], VY: vals[4], WaterMass: vals[5]}
		samples = append(samples, dynamo.Sample{
			Time:       vals[0],
			State:      stateFor(model, k),
			Kinematics: k,
			Pressure:   vals[6],
			Phase:      phase,
		})
	}

	return samples, nil
}

func stateFor(model string, k dynamo.Kinematics) dynamo.State {
	if model == "vertical" {
		return dynamo.State{k.Y, k.VY, k.WaterMass}
	}
	return dynamo.State{k.X, k.Y, k.VX, k.VY, k.WaterMass}
}
