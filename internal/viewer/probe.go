package viewer

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/rgbe"
)

// ErrOutOfBounds is returned by Probe for coordinates outside the face.
var ErrOutOfBounds = errors.New("viewer: texel out of bounds")

// Probe describes one texel of the primary image and, while comparing,
// the matching texel of the reference.
type Probe struct {
	Face    cubemap.FaceID
	X, Y    int
	Texel   rgbe.Texel
	RGB     rgbe.Radiance
	Display [3]uint8 // bytes currently shown for this texel

	Compared bool
	RefTexel rgbe.Texel
	RefRGB   rgbe.Radiance
	// Delta is RefRGB - RGB in linear space.
	Delta rgbe.Radiance
}

// Probe queries the texel at (x, y) of face id.
func (v *Viewer) Probe(id cubemap.FaceID, x, y int) (Probe, error) {
	f := v.cube.Face(id)
	if f == nil {
		return Probe{}, fmt.Errorf("viewer: invalid face %d", int(id))
	}
	if !f.InBounds(x, y) {
		return Probe{}, fmt.Errorf("%w: (%d, %d) on %s of size %d", ErrOutOfBounds, x, y, f.Name(), f.Size)
	}

	px := y*f.Size + x
	p := Probe{
		Face:  id,
		X:     x,
		Y:     y,
		Texel: f.TexelAt(px),
		RGB:   f.RadianceAt(px),
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	shown := v.direct[id]
	if v.cmp != nil {
		shown = v.cmp.diff[id]
		rf := v.cmp.ref.Face(id)
		p.Compared = true
		p.RefTexel = rf.TexelAt(px)
		p.RefRGB = rf.RadianceAt(px)
		p.Delta = p.RefRGB.Sub(p.RGB)
	}
	if o := px * 4; o+3 <= len(shown.Pix) {
		copy(p.Display[:], shown.Pix[o:o+3])
	}
	return p, nil
}
