// Package profile holds named render settings and their overrides from a
// JSON config file and command-line flags.
package profile

import (
	"runtime"
	"sort"
)

// Profile defines how a cube map is rendered to files.
type Profile struct {
	Name     string
	ToneMap  string  // per-channel ("clamp", "reinhard") or global operator name
	Exposure float64 // stops applied before a per-channel operator
	Format   string  // output format of face files
	Quality  int     // encoding quality 1-100, lossy formats only
	Scale    int     // nearest-neighbour upscale of the contact sheet
	Sheet    bool    // write a horizontal cross contact sheet
	Faces    bool    // write one file per face
	EXR      string  // EXR compression; empty disables the export
	Workers  int     // face-level parallelism
}

// DefaultName is the profile used when none is requested.
const DefaultName = "preview"

// Built-in profiles.
var profiles = map[string]Profile{
	"preview": {
		Name:    "preview",
		ToneMap: "clamp",
		Format:  "png",
		Scale:   1,
		Sheet:   true,
		Faces:   true,
	},
	"inspect": {
		Name:    "inspect",
		ToneMap: "clamp",
		Format:  "png",
		Scale:   8, // small probe-sized maps
		Sheet:   true,
		Faces:   true,
	},
	"web": {
		Name:    "web",
		ToneMap: "reinhard",
		Format:  "webp",
		Scale:   1,
		Sheet:   true,
		Faces:   true,
	},
	"archive": {
		Name:    "archive",
		ToneMap: "clamp",
		Format:  "png",
		Scale:   1,
		Faces:   true,
		EXR:     "zip",
	},
}

// Get returns a profile by name. Falls back to preview if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profiles in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Defaults fills zero fields with usable values.
func (p *Profile) Defaults() {
	if p.ToneMap == "" {
		p.ToneMap = "clamp"
	}
	if p.Format == "" {
		p.Format = "png"
	}
	if p.Scale <= 0 {
		p.Scale = 1
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
}
