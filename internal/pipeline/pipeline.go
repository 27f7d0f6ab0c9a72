// Package pipeline renders batches of cube maps to display files.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/AnyUserName/cubeview-cli/internal/encoder"
	"github.com/AnyUserName/cubeview-cli/internal/exrout"
	"github.com/AnyUserName/cubeview-cli/internal/manifest"
	"github.com/AnyUserName/cubeview-cli/internal/profile"
	"github.com/AnyUserName/cubeview-cli/internal/tonemap"
	"github.com/AnyUserName/cubeview-cli/internal/viewer"
	"github.com/mrjoshuak/go-openexr/exr"
)

// Config holds all parameters for a render run.
type Config struct {
	OutputDir string
	Profile   profile.Profile
	Raw       bool // also write each face's RGBE texels as an NRGBA PNG
	Verbose   bool
}

// Pipeline orchestrates cube map rendering.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
	enc      encoder.Encoder
	raw      encoder.Encoder
	opts     viewer.Options
	exr      exr.Compression
	exrOn    bool
}

// New validates the profile and creates a pipeline.
func New(cfg Config) (*Pipeline, error) {
	cfg.Profile.Defaults()
	p := &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
		raw:      &encoder.PNGEncoder{Fast: true},
	}

	enc, err := p.registry.Resolve(cfg.Profile.Format)
	if err != nil {
		return nil, err
	}
	p.enc = enc

	p.opts, err = ViewerOptions(cfg.Profile)
	if err != nil {
		return nil, err
	}

	if cfg.Profile.EXR != "" {
		p.exr, err = exrout.ParseCompression(cfg.Profile.EXR)
		if err != nil {
			return nil, err
		}
		p.exrOn = true
	}
	return p, nil
}

// ViewerOptions maps a profile's tone settings onto viewer options.
func ViewerOptions(prof profile.Profile) (viewer.Options, error) {
	opts := viewer.Options{Workers: prof.Workers}
	if tonemap.IsGlobal(prof.ToneMap) {
		if prof.Exposure != 0 {
			return opts, fmt.Errorf("exposure is not supported with global tone operator %q", prof.ToneMap)
		}
		opts.Global = prof.ToneMap
		return opts, nil
	}
	op, err := tonemap.Lookup(prof.ToneMap)
	if err != nil {
		return opts, err
	}
	if prof.Exposure != 0 {
		op = tonemap.Exposure(prof.Exposure, op)
	}
	opts.ToneMap = op
	return opts, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[cubeview] "+format+"\n", args...)
	}
}

// Run renders every job and returns the manifest. Individual failures are
// reported and counted; Run fails only when every job failed.
func (p *Pipeline) Run(ctx context.Context, jobs []Job) (*manifest.Manifest, error) {
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no cube maps to render")
	}
	p.logf("%s", p.registry.String())
	p.logf("rendering %d cube maps", len(jobs))

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	// Faces use the workers when there is a single cube; otherwise cubes do.
	faceWorkers := p.cfg.Profile.Workers
	if len(jobs) > 1 {
		faceWorkers = 1
	}

	results := make([]renderResult, len(jobs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Profile.Workers)

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			p.logf("processing: %s", j.Key)
			results[idx] = p.renderCube(ctx, j, faceWorkers)
			if r := results[idx]; r.err == nil {
				p.logf("done: %s (%s, %d files)", j.Key, r.render.Mode, len(r.render.Files()))
			}
		}(i, job)
	}
	wg.Wait()

	m := manifest.New(p.cfg.Profile.Name)
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Renders[r.key] = r.render
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[cubeview] error: %v\n", e)
		}
		if len(errs) == len(jobs) {
			return nil, fmt.Errorf("all %d cube maps failed to render: %w", len(errs), errs[0])
		}
		fmt.Fprintf(os.Stderr, "[cubeview] warning: %d of %d cube maps had errors\n", len(errs), len(jobs))
	}

	prof := p.cfg.Profile
	m.BuildInfo = &manifest.BuildInfo{
		Workers:  prof.Workers,
		ToneMap:  prof.ToneMap,
		Exposure: prof.Exposure,
		Format:   p.enc.Format(),
		Quality:  prof.Quality,
		Scale:    prof.Scale,
	}
	m.Stats.Failed = len(errs)
	m.ComputeStats()
	return m, nil
}
