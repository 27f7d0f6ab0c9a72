// Package manifest describes a render run as JSON.
package manifest

// Manifest is the top-level output of a cubeview render.
type Manifest struct {
	Version     int               `json:"version"`
	GeneratedAt string            `json:"generated_at"`
	Profile     string            `json:"profile"`
	BasePath    string            `json:"base_path"`
	BuildInfo   *BuildInfo        `json:"build_info,omitempty"`
	Renders     map[string]Render `json:"renders"`
	Stats       Stats             `json:"stats"`
}

// BuildInfo captures render parameters for diagnostics.
type BuildInfo struct {
	Workers  int     `json:"workers"`
	ToneMap  string  `json:"tone_map"`
	Exposure float64 `json:"exposure,omitempty"` // stops
	Format   string  `json:"format"`
	Quality  int     `json:"quality,omitempty"`
	Scale    int     `json:"scale,omitempty"`
}

// Render describes one cube map and every file written for it.
type Render struct {
	Source    SourceInfo  `json:"source"`
	Reference *SourceInfo `json:"reference,omitempty"`
	Title     string      `json:"title"`
	Mode      string      `json:"mode"`               // "direct", "compare", "degraded"
	Mismatch  string      `json:"mismatch,omitempty"` // reason a reference was refused
	Size      int         `json:"size"`               // face edge length in texels
	Faces     []Face      `json:"faces"`
	Sheet     *File       `json:"sheet,omitempty"` // horizontal cross contact sheet
	EXR       *File       `json:"exr,omitempty"`   // linear half-float export
}

// SourceInfo holds metadata about an input file.
type SourceInfo struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // xxhash64 of the file
}

// Face is one rendered cube face.
type Face struct {
	Index int       `json:"index"`
	Name  string    `json:"name"`  // "Positive X"
	Short string    `json:"short"` // "+X"
	S     string    `json:"s"`
	T     string    `json:"t"`
	Edges Edges     `json:"edges"`
	Stats FaceStats `json:"stats"`
	File  *File     `json:"file,omitempty"` // display file
	Raw   *File     `json:"raw,omitempty"`  // RGBE texels as an NRGBA PNG
}

// Edges holds the signed axis at each face border.
type Edges struct {
	MinS string `json:"min_s"`
	MaxS string `json:"max_s"`
	MinT string `json:"min_t"`
	MaxT string `json:"max_t"`
}

// FaceStats summarizes the source texels of a face.
type FaceStats struct {
	Black     int     `json:"black"`     // all-zero texels
	Saturated int     `json:"saturated"` // texels with a channel above 1
	Max       float64 `json:"max"`       // brightest channel
	Mean      float64 `json:"mean"`      // mean channel average
}

// File is one output file.
type File struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"` // bytes on disk
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to base_path
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalRenders     int   `json:"total_renders"`
	TotalFiles       int   `json:"total_files"`
	Compared         int   `json:"compared,omitempty"`
	Degraded         int   `json:"degraded,omitempty"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest file name inside an output directory.
const FileName = "cubeview.manifest.json"
