// Package source decodes container files into raw RGBE buffers.
//
// Container formats (PNG, TIFF, BMP, WebP, TGA) carry the four RGBE
// bytes in the R, G, B and A channels. They are read without alpha
// premultiplication so the exponent byte survives. Radiance .hdr files
// hold real-valued pixels and are re-encoded to RGBE.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/rgbe"
	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/mdouchement/hdr"
	hdrrgbe "github.com/mdouchement/hdr/codec/rgbe"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupported is returned for inputs no container decoder recognizes.
var ErrUnsupported = errors.New("source: unsupported image format")

// container is a decoder selected by the leading bytes of a file.
// TGA has no signature and is only chosen by extension.
//
// image.Decode is not used: the tga package registers itself with an
// empty magic string, which would match every input ahead of the
// formats registered after it.
type container struct {
	format string
	magic  string // '?' matches any byte
	decode func(io.Reader) (image.Image, error)
}

var containers = []container{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"tiff", "II*\x00", tiff.Decode},
	{"tiff", "MM\x00*", tiff.Decode},
	{"bmp", "BM", bmp.Decode},
	// x/image/webp rejects a VP8L frame inside a VP8X container with the
	// alpha flag set, which extended-format writers emit for RGBE cubes.
	{"webp", "RIFF????WEBP", nativewebp.DecodeIgnoreAlphaFlag},
}

var tgaContainer = container{format: "tga", decode: tga.Decode}

// Buffer is a raw RGBE image, row-major, four bytes per texel.
type Buffer struct {
	Name   string
	Format string
	Width  int
	Height int
	Pix    []byte
}

// CubeMap validates the buffer layout and extracts the six faces.
// The returned map aliases b.Pix.
func (b *Buffer) CubeMap() (*cubemap.CubeMap, error) {
	m, err := cubemap.FromImage(b.Width, b.Height, b.Pix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name, err)
	}
	return m, nil
}

// radianceMagic prefixes the header of Radiance .hdr files.
var radianceMagic = []byte("#?")

// Load reads and decodes the file at path.
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	return Decode(filepath.Base(path), f)
}

// Decode reads one image from r. name is used for messages and for the
// extension hint.
func Decode(name string, r io.Reader) (*Buffer, error) {
	br := bufio.NewReader(r)
	ext := strings.ToLower(filepath.Ext(name))

	if ext == ".hdr" || ext == ".pic" || isRadiance(br) {
		return decodeRadiance(name, br)
	}

	c, ok := tgaContainer, true
	if ext != ".tga" {
		c, ok = sniff(br)
	}
	if !ok {
		return nil, fmt.Errorf("decode %s: %w", name, ErrUnsupported)
	}

	img, err := c.decode(br)
	if err != nil {
		return nil, fmt.Errorf("decode %s as %s: %w", name, c.format, err)
	}
	w, h, pix := rawBytes(img)
	return &Buffer{Name: name, Format: c.format, Width: w, Height: h, Pix: pix}, nil
}

func sniff(br *bufio.Reader) (container, bool) {
	for _, c := range containers {
		head, err := br.Peek(len(c.magic))
		if err == nil && match(c.magic, head) {
			return c, true
		}
	}
	return container{}, false
}

func match(magic string, b []byte) bool {
	for i, c := range b {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}

func isRadiance(br *bufio.Reader) bool {
	head, _ := br.Peek(len(radianceMagic))
	return bytes.Equal(head, radianceMagic)
}

// rawBytes returns the straight (non-premultiplied) RGBA bytes of img.
func rawBytes(img image.Image) (int, int, []byte) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*cubemap.BytesPerTexel)

	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(pix[y*w*4:(y+1)*w*4], row[:w*4])
		}
		return w, h, pix
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			o := (y*w + x) * 4
			pix[o+0] = c.R
			pix[o+1] = c.G
			pix[o+2] = c.B
			pix[o+3] = c.A
		}
	}
	return w, h, pix
}

func decodeRadiance(name string, r io.Reader) (*Buffer, error) {
	img, err := hdrrgbe.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	m, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("decode %s: radiance decoder returned %T", name, img)
	}

	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*cubemap.BytesPerTexel)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cr, cg, cb, _ := m.HDRAt(b.Min.X+x, b.Min.Y+y).HDRRGBA()
			t := rgbe.Encode(rgbe.Radiance{R: cr, G: cg, B: cb})
			o := (y*w + x) * 4
			pix[o+0], pix[o+1], pix[o+2], pix[o+3] = t.R, t.G, t.B, t.E
		}
	}
	return &Buffer{Name: name, Format: "hdr", Width: w, Height: h, Pix: pix}, nil
}
