package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/dopri/internal/dynamo"
)

type ExportData struct {
	*RunMetadata
	Steps  int         `json:"steps"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes the metadata and trajectory of a run as one JSON
// document.
func ExportJSON(w io.Writer, meta *RunMetadata, times []float64, states []dynamo.State) error {
	data := ExportData{
		RunMetadata: meta,
		Steps:       len(times),
		Times:       times,
		States:      make([][]float64, len(states)),
	}
	for i, s := range states {
		data.States[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
