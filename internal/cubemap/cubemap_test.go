package cubemap

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/AnyUserName/cubeview-cli/internal/rgbe"
)

// sentinelBuffer fills face i with bytes of value 10*(i+1).
func sentinelBuffer(size int) []byte {
	buf := make([]byte, ExpectedLen(size))
	faceLen := size * size * BytesPerTexel
	for i := range buf {
		buf[i] = byte(10 * (i/faceLen + 1))
	}
	return buf
}

func TestExtract_FaceOrderAndOrientation(t *testing.T) {
	want := []struct {
		name string
		s, t Axis
	}{
		{"Positive X", "-z", "-y"},
		{"Negative X", "+z", "-y"},
		{"Positive Y", "+x", "+z"},
		{"Negative Y", "+x", "-z"},
		{"Positive Z", "+x", "-y"},
		{"Negative Z", "-x", "-y"},
	}

	const size = 3
	m, err := Extract(sentinelBuffer(size), size)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for i, w := range want {
		f := m.Faces[i]
		if f.ID != FaceID(i) {
			t.Errorf("face %d: id %d", i, f.ID)
		}
		if f.Name() != w.name || f.S != w.s || f.T != w.t {
			t.Errorf("face %d: got %q s=%s t=%s, want %q s=%s t=%s", i, f.Name(), f.S, f.T, w.name, w.s, w.t)
		}
		if len(f.Pix) != size*size*BytesPerTexel {
			t.Errorf("face %d: %d bytes", i, len(f.Pix))
		}
		for j, b := range f.Pix {
			if b != byte(10*(i+1)) {
				t.Fatalf("face %d byte %d: got %d, want sentinel %d", i, j, b, 10*(i+1))
			}
		}
	}
}

func TestExtract_PartitionCoversBuffer(t *testing.T) {
	const size = 4
	buf := sentinelBuffer(size)
	m, err := Extract(buf, size)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	faceLen := size * size * BytesPerTexel
	for i, f := range m.Faces {
		if &f.Pix[0] != &buf[i*faceLen] {
			t.Errorf("face %d does not alias its buffer range", i)
		}
		if cap(f.Pix) != faceLen {
			t.Errorf("face %d cap %d, want %d", i, cap(f.Pix), faceLen)
		}
	}
	// Writes through the parent are visible through the view.
	buf[5*faceLen] = 1
	if m.Face(NegativeZ).Pix[0] != 1 {
		t.Error("face view is a copy")
	}
}

func TestExtract_ShapeError(t *testing.T) {
	tests := []struct {
		name   string
		length int
		size   int
	}{
		{"one byte short", 4*4*4*6 - 1, 4},
		{"one byte long", 4*4*4*6 + 1, 4},
		{"empty", 0, 4},
		{"zero size", 0, 0},
		{"negative size", 96, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(make([]byte, tt.length), tt.size)
			var se *ShapeError
			if !errors.As(err, &se) {
				t.Fatalf("got %v, want *ShapeError", err)
			}
			if se.Len != tt.length {
				t.Errorf("Len: got %d, want %d", se.Len, tt.length)
			}
		})
	}
}

func TestExtract_OversizedFace(t *testing.T) {
	// size*size*24 wraps to 0 for this size on every int width.
	wraps := 1 << (strconv.IntSize / 2)
	for _, size := range []int{wraps, MaxSize + 1, math.MaxInt} {
		_, err := Extract(nil, size)
		var se *ShapeError
		if !errors.As(err, &se) {
			t.Errorf("size %d: got %v, want *ShapeError", size, err)
		}
		if ExpectedLen(size) != 0 {
			t.Errorf("size %d: ExpectedLen = %d, want 0", size, ExpectedLen(size))
		}
	}

	if n := ExpectedLen(MaxSize); n <= 0 || n/(BytesPerTexel*NumFaces)/MaxSize != MaxSize {
		t.Errorf("ExpectedLen(MaxSize) = %d overflowed", n)
	}
}

func TestFromImage_Oversized(t *testing.T) {
	wraps := 1 << (strconv.IntSize / 2)
	tests := []struct {
		name          string
		width, height int
	}{
		{"wrapping size", wraps, wraps * NumFaces},
		{"height product wraps", math.MaxInt/NumFaces + 1, 0},
		{"height not a multiple", 4, 4*NumFaces + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromImage(tt.width, tt.height, []byte{})
			var se *ShapeError
			if !errors.As(err, &se) {
				t.Fatalf("got %v, want *ShapeError", err)
			}
		})
	}
}

func TestFromImage(t *testing.T) {
	const size = 2
	if _, err := FromImage(size, size*6, make([]byte, ExpectedLen(size))); err != nil {
		t.Fatalf("valid image rejected: %v", err)
	}

	_, err := FromImage(size, size*5, make([]byte, size*size*5*4))
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("height mismatch: got %v, want *ShapeError", err)
	}
	if se.Width != size || se.Height != size*5 {
		t.Errorf("dimensions not reported: %+v", se)
	}

	_, err = FromImage(size, size*6, make([]byte, 10))
	if !errors.As(err, &se) {
		t.Fatalf("short buffer: got %v, want *ShapeError", err)
	}
	if se.Height != size*6 {
		t.Errorf("height not reported: %+v", se)
	}
}

func TestFace_Texel(t *testing.T) {
	const size = 2
	buf := make([]byte, ExpectedLen(size))
	m, _ := Extract(buf, size)
	f := m.Face(PositiveY)
	// Texel (1, 1) is the fourth texel of the face.
	copy(f.Pix[3*BytesPerTexel:], []byte{128, 64, 0, 129})

	if got := f.Texel(1, 1); got != (rgbe.Texel{R: 128, G: 64, B: 0, E: 129}) {
		t.Errorf("Texel: got %+v", got)
	}
	if got, want := f.RadianceAt(3), rgbe.Decode(128, 64, 0, 129); got != want {
		t.Errorf("RadianceAt: got %+v, want %+v", got, want)
	}
	if !f.InBounds(1, 1) || f.InBounds(2, 0) || f.InBounds(0, -1) {
		t.Error("InBounds wrong")
	}
	img := f.RawImage()
	if img.NRGBAAt(1, 1).A != 129 {
		t.Errorf("raw image alpha: got %d", img.NRGBAAt(1, 1).A)
	}
}

func TestAxis_Flip(t *testing.T) {
	tests := []struct{ in, want Axis }{
		{"+x", "-x"},
		{"-x", "+x"},
		{"+z", "-z"},
		{"-y", "+y"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := tt.in.Flip(); got != tt.want {
			t.Errorf("Flip(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.in != "" && tt.in.Flip().Flip() != tt.in {
			t.Errorf("double flip of %q", tt.in)
		}
		if tt.in.Letter() != tt.want.Letter() {
			t.Errorf("Flip(%q) changed the letter", tt.in)
		}
	}
}

func TestParseAxis(t *testing.T) {
	if a, err := ParseAxis(" +X "); err != nil || a != "+x" {
		t.Errorf("ParseAxis(+X) = %q, %v", a, err)
	}
	for _, bad := range []string{"x", "+w", "++", "-xy"} {
		if _, err := ParseAxis(bad); err == nil {
			t.Errorf("ParseAxis(%q) accepted", bad)
		}
	}
}

func TestFace_Edges(t *testing.T) {
	m, _ := Extract(make([]byte, ExpectedLen(1)), 1)
	got := m.Face(PositiveY).Edges()
	want := Edges{MinS: "-x", MaxS: "+x", MinT: "-z", MaxT: "+z"}
	if got != want {
		t.Errorf("edges: got %+v, want %+v", got, want)
	}
}

func TestParseFace(t *testing.T) {
	tests := []struct {
		in   string
		want FaceID
	}{
		{"0", PositiveX},
		{"5", NegativeZ},
		{"+x", PositiveX},
		{"-Y", NegativeY},
		{"pz", PositiveZ},
		{"nx", NegativeX},
		{"Positive Y", PositiveY},
	}
	for _, tt := range tests {
		got, err := ParseFace(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFace(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"6", "-1", "top", ""} {
		if _, err := ParseFace(bad); err == nil {
			t.Errorf("ParseFace(%q) accepted", bad)
		}
	}
}

func TestFaceID_Invalid(t *testing.T) {
	id := FaceID(9)
	if id.Valid() || id.Short() != "?" || id.String() != "FaceID(9)" {
		t.Errorf("invalid id handling: %v %q", id.Valid(), id.Short())
	}
	m, _ := Extract(make([]byte, ExpectedLen(1)), 1)
	if m.Face(id) != nil {
		t.Error("Face(invalid) != nil")
	}
}
