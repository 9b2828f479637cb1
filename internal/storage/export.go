package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/semodel/internal/agent"
)

type ExportData struct {
	Run          *RunMetadata         `json:"run"`
	Metrics      []string             `json:"metrics"`
	Histories    map[string][]float64 `json:"histories"`
	Network      any                  `json:"network,omitempty"`
	Participants []agent.Participant  `json:"participants,omitempty"`
}

// ExportJSON writes a run and its histories as indented JSON.
func ExportJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
