package display

import (
	"github.com/AnyUserName/cubeview-cli/internal/cubemap"
	"github.com/AnyUserName/cubeview-cli/internal/rgbe"
)

// FaceStats summarizes the radiance of one face.
type FaceStats struct {
	Black     int     // all-zero texels
	Saturated int     // texels with a channel above 1, clipped by Clamp
	Max       float64 // largest decoded channel value
	Mean      float64 // mean of per-texel channel averages
}

// Stats scans every texel of f.
func Stats(f *cubemap.Face) FaceStats {
	var s FaceStats
	var sum float64
	n := f.NumTexels()
	for px := 0; px < n; px++ {
		if f.TexelAt(px) == (rgbe.Texel{}) {
			s.Black++
			continue
		}
		c := f.RadianceAt(px)
		m := c.Max()
		if m > 1 {
			s.Saturated++
		}
		if m > s.Max {
			s.Max = m
		}
		sum += (c.R + c.G + c.B) / 3
	}
	if n > 0 {
		s.Mean = sum / float64(n)
	}
	return s
}
