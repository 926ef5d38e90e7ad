package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/throwsim/internal/flight"
)

// ExportData is the JSON shape handed to external tooling.
type ExportData struct {
	Body       string             `json:"body"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes the full trajectory as indented JSON. Pass os.Stdout
// to stream it to a pipeline.
func ExportJSON(w io.Writer, body, integrator string, dt, duration float64, result *flight.Result) error {
	data := ExportData{
		Body:       body,
		Integrator: integrator,
		Dt:         dt,
		Duration:   duration,
		Steps:      len(result.Times),
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Metrics:    result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes the trajectory in the same column layout states.csv
// uses on disk.
func ExportCSV(w io.Writer, result *flight.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if len(result.States) == 0 {
		return nil
	}

	if err := cw.Write(stateHeader(len(result.States[0]))); err != nil {
		return err
	}

	for i := range result.States {
		row := make([]string, 0, 1+len(result.States[i]))
		row = append(row, strconv.FormatFloat(result.Times[i], 'f', 6, 64))
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}
