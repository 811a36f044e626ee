package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Steps   int         `json:"steps"`
	Samples []Sample    `json:"samples"`
}

// ExportJSON writes a run and its trajectory as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []Sample) error {
	data := ExportData{
		Run:     meta,
		Steps:   len(samples),
		Samples: samples,
	}
	if data.Samples == nil {
		data.Samples = []Sample{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
