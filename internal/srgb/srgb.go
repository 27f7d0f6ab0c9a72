// Package srgb implements the sRGB opto-electronic transfer function and
// the byte quantizer shared by every display path.
package srgb

import "math"

// Breakpoint between the linear segment and the power curve.
const Breakpoint = 0.0031308

// Encode maps a linear value in [0, 1] to its sRGB-encoded value.
// Inputs outside [0, 1] are not clamped.
func Encode(x float64) float64 {
	if x <= Breakpoint {
		return x * 12.92
	}
	return 1.055*math.Pow(x, 1/2.4) - 0.055
}

// Decode is the inverse of Encode.
func Decode(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ToByte quantizes an encoded value to a display byte, rounding half to
// even and clamping into [0, 255]. NaN maps to 0.
func ToByte(v float64) uint8 {
	s := math.RoundToEven(255 * v)
	switch {
	case math.IsNaN(s), s <= 0:
		return 0
	case s >= 255:
		return 255
	}
	return uint8(s)
}

// EncodeByte is ToByte(Encode(x)).
func EncodeByte(x float64) uint8 {
	return ToByte(Encode(x))
}
