package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		BasePath:    "./",
		Renders:     make(map[string]Render),
	}
}

// Files returns every file of the render in write order.
func (r Render) Files() []File {
	files := make([]File, 0, 2*len(r.Faces)+2)
	for _, f := range r.Faces {
		if f.File != nil {
			files = append(files, *f.File)
		}
		if f.Raw != nil {
			files = append(files, *f.Raw)
		}
	}
	if r.Sheet != nil {
		files = append(files, *r.Sheet)
	}
	if r.EXR != nil {
		files = append(files, *r.EXR)
	}
	return files
}

// ComputeStats recalculates aggregate statistics from renders. Failed is
// kept since failed renders have no entry.
func (m *Manifest) ComputeStats() {
	s := Stats{Failed: m.Stats.Failed}
	s.TotalRenders = len(m.Renders)
	for _, r := range m.Renders {
		s.TotalInputBytes += r.Source.Size
		if r.Reference != nil {
			s.TotalInputBytes += r.Reference.Size
		}
		switch r.Mode {
		case "compare":
			s.Compared++
		case "degraded":
			s.Degraded++
		}
		for _, f := range r.Files() {
			s.TotalFiles++
			s.TotalOutputBytes += f.Size
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
