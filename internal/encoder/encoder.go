// Package encoder turns rendered cube faces into file bytes.
//
// Display buffers and contact sheets are opaque 8-bit RGBA; raw faces
// are NRGBA with the RGBE exponent in alpha and must only go through a
// lossless encoder.
package encoder

import (
	"image"
)

// Encoder is one output file format.
type Encoder interface {
	// Format is the registry name ("png", "jpeg", "webp").
	Format() string

	// Encode returns the encoded file. quality (1-100) applies to lossy
	// formats only.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available reports whether the encoder can run in this build.
	Available() bool

	// Extension is the file name suffix, without the dot.
	Extension() string
}
