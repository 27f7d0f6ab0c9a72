// Package viewer holds a loaded cube map together with its display
// buffers and optional comparison against a second cube map.
//
// A Viewer is the handle returned by a load. All state it exposes is
// scoped to that handle; nothing is registered globally.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AnyUserName/cubeview-cli/internal/compare"
	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/display"
	"github.com/AnyUserName/cubeview-cli/internal/tonemap"
)

// ErrSuperseded is returned by Compare when a newer Compare or
// CancelCompare arrived before it finished. Its result was discarded.
var ErrSuperseded = errors.New("viewer: comparison superseded by a newer request")

// ErrClosed is returned by operations on a closed viewer.
var ErrClosed = errors.New("viewer: closed")

// Mode is the display state of a viewer.
type Mode int

const (
	// ModeDirect shows tone-mapped faces of the primary cube map.
	ModeDirect Mode = iota
	// ModeCompare shows relative-difference faces against a reference.
	ModeCompare
	// ModeDegraded shows direct faces after a reference was refused
	// because its face size differs.
	ModeDegraded
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeCompare:
		return "compare"
	case ModeDegraded:
		return "degraded"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Options controls how faces are rendered.
type Options struct {
	// ToneMap is the per-channel operator of the direct path (Clamp when nil).
	ToneMap tonemap.Operator
	// Global, when set, names a whole-image operator used instead of ToneMap.
	Global string
	// Workers bounds face-level parallelism (NumCPU when <= 0).
	Workers int
}

// compareMap is swapped in tests to hold a request open.
var compareMap = compare.Map

// comparison is the state attached while a reference is active.
type comparison struct {
	name string
	ref  *cubemap.CubeMap
	diff [cubemap.NumFaces]display.Buffer
}

// Viewer is safe for concurrent use.
type Viewer struct {
	name   string
	cube   *cubemap.CubeMap
	opts   Options
	direct [cubemap.NumFaces]display.Buffer

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	cmp      *comparison
	mode     Mode
	mismatch error
	closed   bool
}

// New renders the direct display of every face of m.
func New(ctx context.Context, name string, m *cubemap.CubeMap, opts Options) (*Viewer, error) {
	start := time.Now()
	v := &Viewer{name: name, cube: m, opts: opts}

	var err error
	if opts.Global != "" {
		err = v.renderGlobal(ctx)
	} else {
		v.direct, err = display.RenderMap(ctx, m, opts.ToneMap, opts.Workers)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}

	Logger().Debug("viewer: rendered faces",
		slog.String("name", name),
		slog.Int("size", m.Size),
		slog.Duration("elapsed", time.Since(start)))
	return v, nil
}

func (v *Viewer) renderGlobal(ctx context.Context) error {
	var (
		mu       sync.Mutex
		firstErr error
	)
	err := display.ForEachFace(ctx, v.opts.Workers, func(id cubemap.FaceID) {
		buf, err := display.RenderGlobal(v.cube.Face(id), v.opts.Global)
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return
		}
		v.direct[id] = buf
	})
	if firstErr != nil {
		return firstErr
	}
	return err
}

// Open validates a width×height RGBE image and builds a viewer for it.
func Open(ctx context.Context, name string, width, height int, pix []byte, opts Options) (*Viewer, error) {
	m, err := cubemap.FromImage(width, height, pix)
	if err != nil {
		return nil, err
	}
	return New(ctx, name, m, opts)
}

// Name returns the primary image name.
func (v *Viewer) Name() string { return v.name }

// Size returns the face edge length.
func (v *Viewer) Size() int { return v.cube.Size }

// CubeMap returns the primary cube map.
func (v *Viewer) CubeMap() *cubemap.CubeMap { return v.cube }

// Mode returns the current display state.
func (v *Viewer) Mode() Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// Mismatch returns the error that put the viewer in ModeDegraded, or nil.
func (v *Viewer) Mismatch() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mismatch
}

// Reference returns the name of the active reference, or "".
func (v *Viewer) Reference() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cmp == nil {
		return ""
	}
	return v.cmp.name
}

// Title describes what is on screen.
func (v *Viewer) Title() string {
	if ref := v.Reference(); ref != "" {
		return fmt.Sprintf("%s vs %s (relative difference)", v.name, ref)
	}
	return v.name
}

// Direct returns the direct display buffer of a face. An invalid id
// yields an empty buffer.
func (v *Viewer) Direct(id cubemap.FaceID) display.Buffer {
	if !id.Valid() {
		return display.Buffer{}
	}
	return v.direct[id]
}

// Display returns whatever the face currently shows: the difference
// buffer while comparing, the direct buffer otherwise. An invalid id
// yields an empty buffer.
func (v *Viewer) Display(id cubemap.FaceID) display.Buffer {
	if !id.Valid() {
		return display.Buffer{}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cmp != nil {
		return v.cmp.diff[id]
	}
	return v.direct[id]
}

// begin starts a new request generation, cancelling the one in flight.
func (v *Viewer) begin(ctx context.Context) (context.Context, uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, 0, ErrClosed
	}
	v.gen++
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	return ctx, v.gen, nil
}

// Compare attaches ref as the reference and rebuilds all six difference
// buffers. Only the most recent request is ever presented: an older
// request still running when Compare or CancelCompare is called again is
// cancelled and returns ErrSuperseded.
//
// A reference whose face size differs is refused with an error wrapping
// compare.ErrSizeMismatch; the viewer drops any comparison and enters
// ModeDegraded.
func (v *Viewer) Compare(ctx context.Context, name string, ref *cubemap.CubeMap) error {
	ctx, gen, err := v.begin(ctx)
	if err != nil {
		return err
	}
	start := time.Now()

	diff, err := compareMap(ctx, v.cube, ref, v.opts.Workers)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		return ErrSuperseded
	}
	v.cancel()
	v.cancel = nil

	switch {
	case errors.Is(err, compare.ErrSizeMismatch):
		v.cmp = nil
		v.mode = ModeDegraded
		v.mismatch = err
		Logger().Warn("viewer: reference refused, showing single image",
			slog.String("name", v.name),
			slog.String("reference", name),
			slog.Int("size", v.cube.Size),
			slog.Int("reference_size", ref.Size))
		return err
	case err != nil:
		return err
	}

	v.cmp = &comparison{name: name, ref: ref, diff: diff}
	v.mode = ModeCompare
	v.mismatch = nil
	Logger().Info("viewer: comparing",
		slog.String("name", v.name),
		slog.String("reference", name),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// CancelCompare reverts every face to direct display and discards the
// comparison state, including any comparison still being computed.
func (v *Viewer) CancelCompare() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if v.cmp != nil || v.mode != ModeDirect {
		Logger().Info("viewer: comparison cancelled", slog.String("name", v.name))
	}
	v.cmp = nil
	v.mode = ModeDirect
	v.mismatch = nil
}

// Close cancels pending work and releases the reference. The primary
// buffers remain readable.
func (v *Viewer) Close() {
	v.CancelCompare()
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}
