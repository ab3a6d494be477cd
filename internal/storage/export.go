package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/eulersim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Points []dynamo.Point `json:"points"`
}

func ExportJSON(w io.Writer, meta RunMetadata, tr *dynamo.Trajectory) error {
	data := ExportData{
		RunMetadata: meta,
		Points:      tr.Points,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
