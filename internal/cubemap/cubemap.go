// Package cubemap partitions a vertically stacked six-face RGBE buffer
// into oriented cube faces.
//
// Faces are views: their pixel slices alias the buffer handed to Extract,
// which must outlive every face taken from it.
package cubemap

import (
	"fmt"
	"image"
	"math"

	"github.com/AnyUserName/cubeview-cli/internal/rgbe"
)

// BytesPerTexel is the size of one RGBE texel.
const BytesPerTexel = 4

// ShapeError reports a buffer whose dimensions do not describe a cube map.
type ShapeError struct {
	Size   int // declared face edge length
	Width  int // 0 when the caller supplied only a size
	Height int
	Len    int // actual buffer length
	Want   int // expected buffer length, 0 if not computable
	Reason string
}

func (e *ShapeError) Error() string {
	msg := "cubemap: " + e.Reason
	if e.Width > 0 || e.Height > 0 {
		msg += fmt.Sprintf(" (image %dx%d)", e.Width, e.Height)
	}
	if e.Want > 0 {
		msg += fmt.Sprintf(" (buffer %d bytes, want %d for size %d)", e.Len, e.Want, e.Size)
	}
	return msg
}

// Face is one size×size face of a cube map.
type Face struct {
	ID   FaceID
	S, T Axis
	Size int
	// Pix holds Size*Size RGBE texels, row-major, aliasing the parent buffer.
	Pix []byte
}

// Name returns the human-readable face name, e.g. "Positive X".
func (f *Face) Name() string { return f.ID.String() }

// NumTexels returns Size*Size.
func (f *Face) NumTexels() int { return f.Size * f.Size }

// TexelAt returns the texel at linear index px.
func (f *Face) TexelAt(px int) rgbe.Texel {
	i := px * BytesPerTexel
	p := f.Pix[i : i+BytesPerTexel : i+BytesPerTexel]
	return rgbe.Texel{R: p[0], G: p[1], B: p[2], E: p[3]}
}

// Texel returns the texel at column x, row y.
func (f *Face) Texel(x, y int) rgbe.Texel {
	return f.TexelAt(y*f.Size + x)
}

// RadianceAt decodes the texel at linear index px.
func (f *Face) RadianceAt(px int) rgbe.Radiance {
	i := px * BytesPerTexel
	return rgbe.DecodeBytes(f.Pix[i : i+BytesPerTexel])
}

// InBounds reports whether (x, y) addresses a texel of the face.
func (f *Face) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Size && y < f.Size
}

// Edges returns the axis labels of the face borders.
func (f *Face) Edges() Edges {
	return Edges{MinS: f.S.Flip(), MaxS: f.S, MinT: f.T.Flip(), MaxT: f.T}
}

// RawImage exposes the undecoded texels as an NRGBA image sharing Pix,
// with the exponent in the alpha channel.
func (f *Face) RawImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Size * BytesPerTexel,
		Rect:   image.Rect(0, 0, f.Size, f.Size),
	}
}

// CubeMap is six faces in storage order sharing one backing buffer.
type CubeMap struct {
	Size  int
	Faces [NumFaces]*Face
	buf   []byte
}

// MaxSize is the largest face size whose buffer length fits in an int.
var MaxSize = func() int {
	limit := math.MaxInt / (BytesPerTexel * NumFaces)
	n := int(math.Sqrt(float64(limit)))
	for n > 0 && n > limit/n {
		n--
	}
	for n+1 <= limit/(n+1) {
		n++
	}
	return n
}()

// ExpectedLen returns the buffer length of a cube map with the given
// face size, or 0 when size is not in [1, MaxSize].
func ExpectedLen(size int) int {
	if size <= 0 || size > MaxSize {
		return 0
	}
	return size * size * BytesPerTexel * NumFaces
}

// Extract splits buf into six faces of size×size texels. The face byte
// ranges are contiguous and cover buf exactly; no data is copied.
func Extract(buf []byte, size int) (*CubeMap, error) {
	if size <= 0 {
		return nil, &ShapeError{Size: size, Len: len(buf), Reason: fmt.Sprintf("face size %d must be positive", size)}
	}
	want := ExpectedLen(size)
	if want == 0 {
		return nil, &ShapeError{Size: size, Len: len(buf), Reason: fmt.Sprintf("face size %d exceeds %d", size, MaxSize)}
	}
	if len(buf) != want {
		return nil, &ShapeError{Size: size, Len: len(buf), Want: want, Reason: "buffer length mismatch"}
	}

	m := &CubeMap{Size: size, buf: buf}
	faceLen := size * size * BytesPerTexel
	for _, id := range AllFaces() {
		lo := int(id) * faceLen
		hi := lo + faceLen
		s, t := id.Axes()
		m.Faces[id] = &Face{
			ID:   id,
			S:    s,
			T:    t,
			Size: size,
			Pix:  buf[lo:hi:hi],
		}
	}
	return m, nil
}

// FromImage validates a width×height image holding six faces stacked
// vertically and extracts it with size = width.
func FromImage(width, height int, buf []byte) (*CubeMap, error) {
	if width <= 0 || height%NumFaces != 0 || height/NumFaces != width {
		return nil, &ShapeError{
			Size: width, Width: width, Height: height, Len: len(buf),
			Reason: "expecting six square faces stacked vertically (height = 6 * width)",
		}
	}
	m, err := Extract(buf, width)
	if err != nil {
		if se, ok := err.(*ShapeError); ok {
			se.Width, se.Height = width, height
		}
		return nil, err
	}
	return m, nil
}

// Face returns the face with the given id, or nil if id is invalid.
func (m *CubeMap) Face(id FaceID) *Face {
	if !id.Valid() {
		return nil
	}
	return m.Faces[id]
}

// Bytes returns the backing buffer.
func (m *CubeMap) Bytes() []byte { return m.buf }
