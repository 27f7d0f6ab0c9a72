package profile

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the JSON config file. Zero fields leave the profile value
// unchanged.
type Config struct {
	Profile  string  `json:"profile"`
	ToneMap  string  `json:"tone_map"`
	Exposure float64 `json:"exposure"`
	Format   string  `json:"format"`
	Quality  int     `json:"quality"`
	Scale    int     `json:"scale"`
	Sheet    *bool   `json:"sheet"`
	Faces    *bool   `json:"faces"`
	EXR      string  `json:"exr"`
	Workers  int     `json:"workers"`
}

// Load reads a JSON config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values. Zero values do not override.
type Flags struct {
	Profile  string
	ToneMap  string
	Exposure float64
	Format   string
	Quality  int
	Scale    int
	NoSheet  bool
	EXR      string
	Workers  int
}

// Resolve builds the effective profile: the named built-in profile, then
// the config file (may be nil), then flags.
func Resolve(cfg *Config, flags Flags) Profile {
	name := DefaultName
	if cfg != nil && cfg.Profile != "" {
		name = cfg.Profile
	}
	if flags.Profile != "" {
		name = flags.Profile
	}
	p := Get(name)

	if cfg != nil {
		p.apply(Flags{
			ToneMap:  cfg.ToneMap,
			Exposure: cfg.Exposure,
			Format:   cfg.Format,
			Quality:  cfg.Quality,
			Scale:    cfg.Scale,
			EXR:      cfg.EXR,
			Workers:  cfg.Workers,
		})
		if cfg.Sheet != nil {
			p.Sheet = *cfg.Sheet
		}
		if cfg.Faces != nil {
			p.Faces = *cfg.Faces
		}
	}
	p.apply(flags)
	if flags.NoSheet {
		p.Sheet = false
	}

	p.Defaults()
	return p
}

func (p *Profile) apply(o Flags) {
	if o.ToneMap != "" {
		p.ToneMap = o.ToneMap
	}
	if o.Exposure != 0 {
		p.Exposure = o.Exposure
	}
	if o.Format != "" {
		p.Format = o.Format
	}
	if o.Quality > 0 {
		p.Quality = o.Quality
	}
	if o.Scale > 0 {
		p.Scale = o.Scale
	}
	if o.EXR != "" {
		p.EXR = o.EXR
	}
	if o.Workers > 0 {
		p.Workers = o.Workers
	}
}
