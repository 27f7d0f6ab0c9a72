package display

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/tonemap"
)

// fillFace sets every texel of face id to t.
func fillFace(buf []byte, size int, id cubemap.FaceID, t [4]byte) {
	faceLen := size * size * 4
	for i := int(id) * faceLen; i < int(id+1)*faceLen; i += 4 {
		copy(buf[i:i+4], t[:])
	}
}

func syntheticMap(t *testing.T) *cubemap.CubeMap {
	t.Helper()
	const size = 2
	buf := make([]byte, cubemap.ExpectedLen(size)) // 96 bytes
	fillFace(buf, size, cubemap.PositiveX, [4]byte{128, 128, 128, 200})
	fillFace(buf, size, cubemap.NegativeX, [4]byte{128, 128, 128, 128})
	fillFace(buf, size, cubemap.PositiveY, [4]byte{200, 100, 50, 127})
	fillFace(buf, size, cubemap.NegativeY, [4]byte{128, 64, 0, 129})
	fillFace(buf, size, cubemap.PositiveZ, [4]byte{10, 20, 30, 120})
	// Negative Z stays all-zero.
	m, err := cubemap.Extract(buf, size)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return m
}

func TestRender_Literals(t *testing.T) {
	m := syntheticMap(t)
	want := map[cubemap.FaceID][4]byte{
		cubemap.PositiveX: {255, 255, 255, 255},
		cubemap.NegativeX: {188, 188, 188, 255},
		cubemap.PositiveY: {168, 122, 88, 255},
		cubemap.NegativeY: {255, 188, 13, 255},
		cubemap.PositiveZ: {1, 1, 2, 255},
		cubemap.NegativeZ: {0, 0, 0, 255},
	}
	for id, w := range want {
		buf := Render(m.Face(id), nil)
		if len(buf.Pix) != 2*2*4 {
			t.Fatalf("%s: %d bytes", id, len(buf.Pix))
		}
		for px := 0; px < 4; px++ {
			got := [4]byte(buf.Pix[px*4 : px*4+4])
			if got != w {
				t.Errorf("%s texel %d: got %v, want %v", id, px, got, w)
			}
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	m := syntheticMap(t)
	a := Render(m.Face(cubemap.PositiveY), tonemap.Clamp)
	b := Render(m.Face(cubemap.PositiveY), tonemap.Clamp)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("render is not bit-for-bit reproducible")
	}
}

func TestRender_OperatorIsReplaceable(t *testing.T) {
	m := syntheticMap(t)
	f := m.Face(cubemap.PositiveX)
	black := Render(f, func(float64) float64 { return 0 })
	for px := 0; px < f.NumTexels(); px++ {
		if black.Pix[px*4] != 0 || black.Pix[px*4+3] != Opaque {
			t.Fatalf("texel %d: %v", px, black.Pix[px*4:px*4+4])
		}
	}
	r := Render(f, tonemap.Reinhard)
	// x / (1 + x) rounds to exactly 1 at this magnitude.
	if r.Pix[0] != 255 {
		t.Errorf("reinhard of huge value: got %d", r.Pix[0])
	}
}

func TestRenderMap_MatchesSequential(t *testing.T) {
	m := syntheticMap(t)
	bufs, err := RenderMap(context.Background(), m, nil, 3)
	if err != nil {
		t.Fatalf("render map: %v", err)
	}
	for _, id := range cubemap.AllFaces() {
		want := Render(m.Face(id), nil)
		if !bytes.Equal(bufs[id].Pix, want.Pix) {
			t.Errorf("%s: parallel output differs", id)
		}
	}
}

func TestRenderMap_Cancelled(t *testing.T) {
	m := syntheticMap(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderMap(ctx, m, nil, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestBuffer_Image(t *testing.T) {
	b := NewBuffer(2)
	img := b.Image()
	img.Pix[0] = 42
	if b.Pix[0] != 42 {
		t.Error("Image copies the buffer")
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds: %v", img.Bounds())
	}
}

func TestStats(t *testing.T) {
	m := syntheticMap(t)
	if s := Stats(m.Face(cubemap.NegativeZ)); s.Black != 4 || s.Max != 0 {
		t.Errorf("black face: %+v", s)
	}
	s := Stats(m.Face(cubemap.NegativeY))
	if s.Black != 0 || s.Saturated != 4 || s.Max != 1.00390625 {
		t.Errorf("saturated face: %+v", s)
	}
	if s := Stats(m.Face(cubemap.NegativeX)); s.Saturated != 0 || s.Mean != 0.501953125 {
		t.Errorf("mid face: %+v", s)
	}
}

func TestRenderGlobal(t *testing.T) {
	m := syntheticMap(t)
	buf, err := RenderGlobal(m.Face(cubemap.PositiveY), "linear")
	if err != nil {
		t.Fatalf("render global: %v", err)
	}
	if buf.Size != 2 || len(buf.Pix) != 16 {
		t.Fatalf("buffer shape: size %d, %d bytes", buf.Size, len(buf.Pix))
	}
	for px := 0; px < 4; px++ {
		if buf.Pix[px*4+3] != Opaque {
			t.Errorf("texel %d not opaque", px)
		}
	}
	if _, err := RenderGlobal(m.Face(cubemap.PositiveY), "bogus"); err == nil {
		t.Error("expected error for unknown operator")
	}
}

func TestHDRFace(t *testing.T) {
	m := syntheticMap(t)
	h := NewHDRFace(m.Face(cubemap.NegativeX))
	if h.Size() != 4 {
		t.Errorf("Size: got %d", h.Size())
	}
	r, g, b, _ := h.HDRAt(1, 1).HDRRGBA()
	if r != 0.501953125 || g != r || b != r {
		t.Errorf("HDRAt: got %g %g %g", r, g, b)
	}
}
