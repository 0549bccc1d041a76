package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Times     []float64      `json:"times"`
	Energies  []float64      `json:"energies"`
	Positions [][][3]float64 `json:"positions"`
}

// ExportJSON writes a stored run as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, traj *Trajectory) error {
	data := ExportData{
		RunMetadata: *meta,
		Times:       traj.Times,
		Energies:    traj.Energies,
		Positions:   make([][][3]float64, len(traj.Positions)),
	}

	for i, frame := range traj.Positions {
		data.Positions[i] = make([][3]float64, len(frame))
		for j, p := range frame {
			data.Positions[i][j] = [3]float64{p.X, p.Y, p.Z}
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
