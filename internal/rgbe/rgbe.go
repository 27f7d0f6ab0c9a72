// Package rgbe converts between shared-exponent RGBE texels and linear
// radiance.
//
// A texel stores three 8-bit mantissas and one 8-bit exponent biased by
// 128. Decoding reconstructs the midpoint of the quantization bucket.
package rgbe

import "math"

// Texel is one shared-exponent sample.
type Texel struct {
	R, G, B, E uint8
}

// Radiance is a linear RGB triple.
type Radiance struct {
	R, G, B float64
}

// Max returns the largest channel.
func (c Radiance) Max() float64 {
	return math.Max(c.R, math.Max(c.G, c.B))
}

// Sub returns the per-channel difference c - o.
func (c Radiance) Sub(o Radiance) Radiance {
	return Radiance{R: c.R - o.R, G: c.G - o.G, B: c.B - o.B}
}

const (
	exponentBias = 128

	// Values below this encode as black.
	minEncodable = 1e-32
)

// Decode converts one texel into linear radiance.
//
// The all-zero texel decodes to exact black. Every other texel yields
// (c + 0.5) / 256 * 2^(e - 128) per channel.
func Decode(r, g, b, e uint8) Radiance {
	if r == 0 && g == 0 && b == 0 && e == 0 {
		return Radiance{}
	}
	// (c + 0.5) / 256 * 2^(e-128) folded into one power of two.
	scale := math.Ldexp(1, int(e)-exponentBias-8)
	return Radiance{
		R: (float64(r) + 0.5) * scale,
		G: (float64(g) + 0.5) * scale,
		B: (float64(b) + 0.5) * scale,
	}
}

// DecodeTexel is Decode for a Texel value.
func DecodeTexel(t Texel) Radiance {
	return Decode(t.R, t.G, t.B, t.E)
}

// DecodeBytes decodes the texel stored in p[0:4].
func DecodeBytes(p []byte) Radiance {
	_ = p[3]
	return Decode(p[0], p[1], p[2], p[3])
}

// Encode converts linear radiance into a texel sharing the exponent of
// the largest channel. Negative channels are stored as zero; values too
// large for the exponent range saturate.
func Encode(c Radiance) Texel {
	c.R = math.Max(c.R, 0)
	c.G = math.Max(c.G, 0)
	c.B = math.Max(c.B, 0)

	v := c.Max()
	if v < minEncodable || math.IsNaN(v) {
		return Texel{}
	}
	if math.IsInf(v, 1) {
		return Texel{R: 255, G: 255, B: 255, E: 255}
	}

	_, exp := math.Frexp(v)
	if exp+exponentBias > 255 {
		return Texel{R: 255, G: 255, B: 255, E: 255}
	}
	if exp+exponentBias < 0 {
		return Texel{}
	}
	scale := math.Ldexp(256, -exp)
	return Texel{
		R: mantissa(c.R * scale),
		G: mantissa(c.G * scale),
		B: mantissa(c.B * scale),
		E: uint8(exp + exponentBias),
	}
}

func mantissa(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
