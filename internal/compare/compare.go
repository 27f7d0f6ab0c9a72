// Package compare builds centered relative-difference displays of two
// equally sized cube maps.
//
// Per channel the displayed value is (ref - a) / max(|a|, |ref|) + 0.5,
// so identical inputs show the neutral value 0.5. When both channels are
// exactly zero the quotient is undefined; it is defined here as no
// difference (0.5).
package compare

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/display"
	"github.com/AnyUserName/cubeview-cli/internal/srgb"
)

// ErrSizeMismatch is returned when the two inputs have different face
// sizes. Callers fall back to the direct display path.
var ErrSizeMismatch = errors.New("compare: face sizes differ")

// Neutral is the displayed value of a channel with no difference.
const Neutral = 0.5

// Relative returns the centered relative difference of ref against a.
func Relative(a, ref float64) float64 {
	m := math.Max(math.Abs(a), math.Abs(ref))
	if m == 0 {
		return Neutral
	}
	return (ref-a)/m + Neutral
}

func mismatch(a, b int) error {
	return fmt.Errorf("%w: %d vs %d", ErrSizeMismatch, a, b)
}

// Face renders the difference of ref against a. The result is encoded
// like a display channel, without tone mapping.
func Face(a, ref *cubemap.Face) (display.Buffer, error) {
	if a.Size != ref.Size {
		return display.Buffer{}, mismatch(a.Size, ref.Size)
	}
	out := display.NewBuffer(a.Size)
	n := a.NumTexels()
	for px := 0; px < n; px++ {
		c := a.RadianceAt(px)
		r := ref.RadianceAt(px)
		o := px * 4
		out.Pix[o+0] = srgb.EncodeByte(Relative(c.R, r.R))
		out.Pix[o+1] = srgb.EncodeByte(Relative(c.G, r.G))
		out.Pix[o+2] = srgb.EncodeByte(Relative(c.B, r.B))
		out.Pix[o+3] = display.Opaque
	}
	return out, nil
}

// Map renders the difference of every face pair concurrently. A size
// mismatch refuses the whole pairing before any work starts.
func Map(ctx context.Context, a, ref *cubemap.CubeMap, workers int) ([cubemap.NumFaces]display.Buffer, error) {
	var out [cubemap.NumFaces]display.Buffer
	if a.Size != ref.Size {
		return out, mismatch(a.Size, ref.Size)
	}
	err := display.ForEachFace(ctx, workers, func(id cubemap.FaceID) {
		// Sizes already match, Face cannot fail.
		out[id], _ = Face(a.Face(id), ref.Face(id))
	})
	if err != nil {
		return [cubemap.NumFaces]display.Buffer{}, err
	}
	return out, nil
}
