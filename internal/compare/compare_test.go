package compare

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/srgb"
)

// neutralByte is the display byte of the neutral value 0.5.
var neutralByte = srgb.EncodeByte(Neutral)

func newMap(t *testing.T, size int, fill func(px int) [4]byte) *cubemap.CubeMap {
	t.Helper()
	buf := make([]byte, cubemap.ExpectedLen(size))
	for px := 0; px < len(buf)/4; px++ {
		v := fill(px)
		copy(buf[px*4:], v[:])
	}
	m, err := cubemap.Extract(buf, size)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return m
}

func TestRelative(t *testing.T) {
	tests := []struct {
		name   string
		a, ref float64
		want   float64
	}{
		{"equal", 3, 3, 0.5},
		{"both zero", 0, 0, 0.5},
		{"ref double", 1, 2, 1},
		{"ref half", 2, 1, 0},
		{"ref zero", 1, 0, -0.5},
		{"a zero", 0, 1, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Relative(tt.a, tt.ref)
			if math.IsNaN(got) || got != tt.want {
				t.Errorf("Relative(%g, %g) = %g, want %g", tt.a, tt.ref, got, tt.want)
			}
		})
	}
}

func TestFace_SelfIsNeutral(t *testing.T) {
	m := newMap(t, 3, func(px int) [4]byte {
		if px%5 == 0 {
			return [4]byte{} // degenerate 0/0 texels
		}
		return [4]byte{byte(px), byte(px * 3), 0, byte(100 + px%50)}
	})
	for _, f := range m.Faces {
		buf, err := Face(f, f)
		if err != nil {
			t.Fatalf("%s: %v", f.Name(), err)
		}
		for px := 0; px < f.NumTexels(); px++ {
			p := buf.Pix[px*4 : px*4+4]
			if p[0] != neutralByte || p[1] != neutralByte || p[2] != neutralByte || p[3] != 255 {
				t.Fatalf("%s texel %d: got %v, want neutral %d", f.Name(), px, p, neutralByte)
			}
		}
	}
}

func TestFace_Direction(t *testing.T) {
	// Primary 1.0 everywhere, reference 2.0 on +X and 0.5 on -X.
	a := newMap(t, 1, func(int) [4]byte { return [4]byte{128, 128, 128, 129} })
	ref := newMap(t, 1, func(px int) [4]byte {
		switch cubemap.FaceID(px) {
		case cubemap.PositiveX:
			return [4]byte{128, 128, 128, 130}
		case cubemap.NegativeX:
			return [4]byte{128, 128, 128, 128}
		}
		return [4]byte{128, 128, 128, 129}
	})

	brighter, _ := Face(a.Face(cubemap.PositiveX), ref.Face(cubemap.PositiveX))
	if brighter.Pix[0] != 255 {
		t.Errorf("brighter reference: got %d, want 255", brighter.Pix[0])
	}
	darker, _ := Face(a.Face(cubemap.NegativeX), ref.Face(cubemap.NegativeX))
	if darker.Pix[0] != 0 {
		t.Errorf("darker reference: got %d, want 0", darker.Pix[0])
	}
	same, _ := Face(a.Face(cubemap.PositiveY), ref.Face(cubemap.PositiveY))
	if same.Pix[0] != neutralByte {
		t.Errorf("equal texel: got %d, want %d", same.Pix[0], neutralByte)
	}
}

func TestFace_SizeMismatch(t *testing.T) {
	a := newMap(t, 2, func(int) [4]byte { return [4]byte{1, 2, 3, 128} })
	b := newMap(t, 3, func(int) [4]byte { return [4]byte{1, 2, 3, 128} })
	if _, err := Face(a.Faces[0], b.Faces[0]); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Face: got %v, want ErrSizeMismatch", err)
	}
	if _, err := Map(context.Background(), a, b, 2); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Map: got %v, want ErrSizeMismatch", err)
	}
}

func TestMap(t *testing.T) {
	a := newMap(t, 2, func(px int) [4]byte { return [4]byte{byte(px), 50, 9, 128} })
	bufs, err := Map(context.Background(), a, a, 0)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	for id, b := range bufs {
		if b.Size != 2 || len(b.Pix) != 16 {
			t.Fatalf("face %d: bad buffer", id)
		}
		if b.Pix[0] != neutralByte {
			t.Errorf("face %d: got %d", id, b.Pix[0])
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Map(ctx, a, a, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled map: got %v", err)
	}
}
