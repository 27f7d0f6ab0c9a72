package display

import (
	"image"
	"image/color"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/tonemap"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"
)

// HDRFace exposes the decoded radiance of a face as an hdr.Image.
type HDRFace struct {
	face *cubemap.Face
}

var _ hdr.Image = (*HDRFace)(nil)

// NewHDRFace wraps f. Texels are decoded on every access.
func NewHDRFace(f *cubemap.Face) *HDRFace {
	return &HDRFace{face: f}
}

func (h *HDRFace) ColorModel() color.Model { return hdrcolor.RGBModel }

func (h *HDRFace) Bounds() image.Rectangle {
	return image.Rect(0, 0, h.face.Size, h.face.Size)
}

// Size returns the number of pixels.
func (h *HDRFace) Size() int { return h.face.NumTexels() }

func (h *HDRFace) At(x, y int) color.Color { return h.HDRAt(x, y) }

func (h *HDRFace) HDRAt(x, y int) hdrcolor.Color {
	if !h.face.InBounds(x, y) {
		return hdrcolor.RGB{}
	}
	c := h.face.RadianceAt(y*h.face.Size + x)
	return hdrcolor.RGB{R: c.R, G: c.G, B: c.B}
}

// RenderGlobal tone maps f with the whole-image operator name and packs
// the result into a display buffer. The operator's output is already
// display-referred and is not sRGB-encoded again.
func RenderGlobal(f *cubemap.Face, name string) (Buffer, error) {
	img, err := tonemap.ApplyGlobal(name, NewHDRFace(f))
	if err != nil {
		return Buffer{}, err
	}
	out := NewBuffer(f.Size)
	b := img.Bounds()
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := (y*f.Size + x) * 4
			out.Pix[o+0] = uint8(r >> 8)
			out.Pix[o+1] = uint8(g >> 8)
			out.Pix[o+2] = uint8(bl >> 8)
			out.Pix[o+3] = Opaque
		}
	}
	return out, nil
}
