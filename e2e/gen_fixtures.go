//go:build ignore

// gen_fixtures creates small RGBE cube maps for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "ref"), 0o755)

	// Sky (32px faces): brightness rises toward +Y, sun spot on +Z.
	writePNG(filepath.Join(dir, "sky.png"), sky(32, 1))
	// Same sky one stop brighter, as comparison reference.
	writePNG(filepath.Join(dir, "ref", "sky.png"), sky(32, 2))

	// Solid faces, one exponent per face.
	writePNG(filepath.Join(dir, "faces.png"), faces(16))
	// Smaller reference, refused by compare.
	writePNG(filepath.Join(dir, "ref", "faces.png"), faces(8))

	// Radiance file of the same sky.
	writeRadiance(filepath.Join(dir, "sky.hdr"), sky(32, 1))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

// encode converts linear radiance to an RGBE texel.
func encode(r, g, b float64) [4]byte {
	m := math.Max(r, math.Max(g, b))
	if m < 1e-32 {
		return [4]byte{}
	}
	frac, exp := math.Frexp(m)
	k := frac * 256 / m
	return [4]byte{byte(r * k), byte(g * k), byte(b * k), byte(exp + 128)}
}

func sky(size int, gain float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size*6))
	for face := 0; face < 6; face++ {
		base := 0.2 + 0.15*float64(face)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				v := base * (1 + float64(size-y)/float64(size))
				dx, dy := float64(x-size/2), float64(y-size/2)
				if face == 4 && dx*dx+dy*dy < 9 {
					v = 40 // sun
				}
				t := encode(gain*v, gain*v*0.9, gain*v*0.8)
				o := img.PixOffset(x, face*size+y)
				copy(img.Pix[o:o+4], t[:])
			}
		}
	}
	return img
}

func faces(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size*6))
	for i := 0; i < len(img.Pix); i += 4 {
		face := i / 4 / (size * size)
		copy(img.Pix[i:i+4], []byte{200, 100, 50, byte(125 + face)})
	}
	return img
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", path, err)
		os.Exit(1)
	}
}

// writeRadiance stores img's texels as a flat (uncompressed) .hdr file.
func writeRadiance(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	b := img.Bounds()
	fmt.Fprintf(w, "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y %d +X %d\n", b.Dy(), b.Dx())
	w.Write(img.Pix)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
}
