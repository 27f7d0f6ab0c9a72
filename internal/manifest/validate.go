package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Validate checks schema invariants and that every referenced file exists
// under baseDir with the recorded size. It returns one message per problem.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	keys := make([]string, 0, len(m.Renders))
	for k := range m.Renders {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	files := 0
	for _, key := range keys {
		r := m.Renders[key]
		if r.Size <= 0 {
			errs = append(errs, fmt.Sprintf("render %q: invalid face size %d", key, r.Size))
		}
		if r.Source.Width != r.Size || r.Source.Height != r.Size*6 {
			errs = append(errs, fmt.Sprintf("render %q: source %dx%d is not a %d-texel cube",
				key, r.Source.Width, r.Source.Height, r.Size))
		}
		switch r.Mode {
		case "direct", "degraded":
		case "compare":
			if r.Reference == nil {
				errs = append(errs, fmt.Sprintf("render %q: compare mode without reference", key))
			}
		default:
			errs = append(errs, fmt.Sprintf("render %q: unknown mode %q", key, r.Mode))
		}
		if len(r.Faces) != 6 {
			errs = append(errs, fmt.Sprintf("render %q: %d faces, want 6", key, len(r.Faces)))
		}
		for i, f := range r.Faces {
			if f.Index != i {
				errs = append(errs, fmt.Sprintf("render %q face[%d]: index %d out of order", key, i, f.Index))
			}
		}

		for _, f := range r.Files() {
			files++
			if f.Hash == "" {
				errs = append(errs, fmt.Sprintf("render %q: %s missing hash", key, f.Path))
			}
			if f.Path == "" {
				errs = append(errs, fmt.Sprintf("render %q: file with empty path", key))
				continue
			}
			if prev, dup := seenPaths[f.Path]; dup {
				errs = append(errs, fmt.Sprintf("render %q: path %q already used by %q", key, f.Path, prev))
			}
			seenPaths[f.Path] = key

			info, err := os.Stat(filepath.Join(baseDir, f.Path))
			if err != nil {
				errs = append(errs, fmt.Sprintf("render %q: file not found: %s", key, f.Path))
			} else if f.Size > 0 && info.Size() != f.Size {
				errs = append(errs, fmt.Sprintf("render %q: %s size mismatch: manifest=%d, disk=%d",
					key, f.Path, f.Size, info.Size()))
			}
		}
	}

	if m.Stats.TotalRenders != len(m.Renders) {
		errs = append(errs, fmt.Sprintf("stats.total_renders mismatch: %d != %d", m.Stats.TotalRenders, len(m.Renders)))
	}
	if m.Stats.TotalFiles != files {
		errs = append(errs, fmt.Sprintf("stats.total_files mismatch: %d != %d", m.Stats.TotalFiles, files))
	}
	return errs
}
