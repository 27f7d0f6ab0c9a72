// Package display renders cube faces into display-encoded byte buffers.
package display

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/srgb"
	"github.com/AnyUserName/cubeview-cli/internal/tonemap"
)

// Opaque is the alpha byte of every display texel.
const Opaque = 0xff

// Buffer holds Size*Size display texels: encoded R, G, B and opaque alpha.
type Buffer struct {
	Size int
	Pix  []byte
}

// NewBuffer allocates a zeroed buffer for a size×size face.
func NewBuffer(size int) Buffer {
	return Buffer{Size: size, Pix: make([]byte, size*size*4)}
}

// Image wraps the buffer as an RGBA image without copying. Alpha is
// always opaque, so premultiplied and straight values coincide.
func (b Buffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Size * 4,
		Rect:   image.Rect(0, 0, b.Size, b.Size),
	}
}

// Render runs the direct display path over every texel of f: decode,
// tone map with op (Clamp when nil), sRGB-encode and quantize.
func Render(f *cubemap.Face, op tonemap.Operator) Buffer {
	if op == nil {
		op = tonemap.Clamp
	}
	out := NewBuffer(f.Size)
	n := f.NumTexels()
	for px := 0; px < n; px++ {
		c := f.RadianceAt(px)
		o := px * 4
		out.Pix[o+0] = srgb.EncodeByte(op(c.R))
		out.Pix[o+1] = srgb.EncodeByte(op(c.G))
		out.Pix[o+2] = srgb.EncodeByte(op(c.B))
		out.Pix[o+3] = Opaque
	}
	return out
}

// RenderMap renders all six faces of m concurrently. Each face writes
// its own buffer.
func RenderMap(ctx context.Context, m *cubemap.CubeMap, op tonemap.Operator, workers int) ([cubemap.NumFaces]Buffer, error) {
	var out [cubemap.NumFaces]Buffer
	err := ForEachFace(ctx, workers, func(id cubemap.FaceID) {
		out[id] = Render(m.Face(id), op)
	})
	return out, err
}

// ForEachFace runs fn once per face on up to workers goroutines (NumCPU
// when workers <= 0). Faces not yet started when ctx is cancelled are skipped.
func ForEachFace(ctx context.Context, workers int, fn func(cubemap.FaceID)) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for _, id := range cubemap.AllFaces() {
		wg.Add(1)
		go func(id cubemap.FaceID) {
			defer wg.Done()
			select {
			case sem <- struct{}{}: // acquire
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }() // release

			if ctx.Err() != nil {
				return
			}
			fn(id)
		}(id)
	}
	wg.Wait()
	return ctx.Err()
}

