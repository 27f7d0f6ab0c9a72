// Package exrout exports cube maps as linear OpenEXR environment maps.
//
// The output is a single scanline image of width size and height
// 6*size with the faces stacked in +X, -X, +Y, -Y, +Z, -Z order, the
// layout OpenEXR uses for envmap=cube.
package exrout

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/mrjoshuak/go-openexr/exr"
	"github.com/mrjoshuak/go-openexr/half"
)

// MaxHalf is the largest finite half-float value. Brighter radiance is
// clamped to it.
const MaxHalf = 65504

var channelNames = [3]string{"R", "G", "B"}

// ParseCompression maps a compression name to its EXR constant.
func ParseCompression(s string) (exr.Compression, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return exr.CompressionNone, nil
	case "rle":
		return exr.CompressionRLE, nil
	case "zips":
		return exr.CompressionZIPS, nil
	case "zip":
		return exr.CompressionZIP, nil
	case "piz":
		return exr.CompressionPIZ, nil
	default:
		return exr.CompressionNone, fmt.Errorf("unknown EXR compression %q", s)
	}
}

func toHalf(v float64) half.Half {
	if v > MaxHalf {
		v = MaxHalf
	}
	return half.FromFloat32(float32(v))
}

// WriteCube writes the decoded radiance of m to w.
func WriteCube(w io.WriteSeeker, m *cubemap.CubeMap, comp exr.Compression) error {
	width, height := m.Size, m.Size*cubemap.NumFaces

	h := exr.NewScanlineHeader(width, height)
	h.SetCompression(comp)
	h.SetEnvmap(exr.EnvMapCube)

	channels := exr.NewChannelList()
	for _, name := range channelNames {
		channels.Add(exr.Channel{Name: name, Type: exr.PixelTypeHalf, XSampling: 1, YSampling: 1})
	}
	h.SetChannels(channels)

	fb := exr.NewFrameBuffer()
	for _, name := range channelNames {
		fb.Set(name, exr.NewSlice(exr.PixelTypeHalf, make([]byte, width*height*2), width, height))
	}
	r, g, b := fb.Get("R"), fb.Get("G"), fb.Get("B")

	for _, id := range cubemap.AllFaces() {
		f := m.Face(id)
		y0 := int(id) * m.Size
		for px := 0; px < f.NumTexels(); px++ {
			x, y := px%m.Size, y0+px/m.Size
			c := f.RadianceAt(px)
			r.SetHalf(x, y, toHalf(c.R))
			g.SetHalf(x, y, toHalf(c.G))
			b.SetHalf(x, y, toHalf(c.B))
		}
	}

	sw, err := exr.NewScanlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("exr writer: %w", err)
	}
	sw.SetFrameBuffer(fb)

	yMin := int(h.DataWindow().Min.Y)
	yMax := int(h.DataWindow().Max.Y)
	if err := sw.WritePixels(yMin, yMax); err != nil {
		return fmt.Errorf("exr pixels: %w", err)
	}
	return sw.Close()
}

// WriteFile writes m to path.
func WriteFile(path string, m *cubemap.CubeMap, comp exr.Compression) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create exr: %w", err)
	}
	if err := WriteCube(f, m, comp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
