package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/dpend/internal/dynamo"
)

type ExportData struct {
	Params    dynamo.Params      `json:"params"`
	Method    string             `json:"method"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	States    []dynamo.State     `json:"states"`
	Positions []dynamo.Position  `json:"positions"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

func NewExportData(method string, duration float64, tr *dynamo.Trajectory, metrics map[string]float64) ExportData {
	data := ExportData{
		Params:    tr.Params,
		Method:    method,
		Dt:        tr.Dt,
		Duration:  duration,
		Steps:     tr.Len(),
		Times:     tr.Times(),
		States:    make([]dynamo.State, tr.Len()),
		Positions: tr.Positions(),
		Metrics:   metrics,
	}
	for i, s := range tr.Samples {
		data.States[i] = s.State
	}
	return data
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
