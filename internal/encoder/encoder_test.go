package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/HugoSmits86/nativewebp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 32), uint8(y * 32), 188, 255})
		}
	}
	return img
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if got := strings.Join(r.Available(), ","); got != "png,webp,jpeg" {
		t.Errorf("got %q", got)
	}
	for _, f := range []string{"png", "PNG", ".webp", "jpg", "jpeg"} {
		if r.Get(f) == nil {
			t.Errorf("Get(%q) = nil", f)
		}
	}
	if _, err := r.Resolve("avif"); err == nil || !strings.Contains(err.Error(), "png") {
		t.Errorf("Resolve(avif) = %v", err)
	}
	if got := r.Get("jpg").Extension(); got != "jpg" {
		t.Errorf("jpeg extension %q", got)
	}
}

func TestPNG_Lossless(t *testing.T) {
	img := testImage()
	for _, enc := range []*PNGEncoder{{}, {Fast: true}} {
		data, err := enc.Encode(img, 0)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		back, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				r1, g1, b1, _ := img.At(x, y).RGBA()
				r2, g2, b2, _ := back.At(x, y).RGBA()
				if r1 != r2 || g1 != g2 || b1 != b2 {
					t.Fatalf("(%d,%d) changed", x, y)
				}
			}
		}
	}
}

func TestEncoders_Produce(t *testing.T) {
	magic := map[string][]byte{
		"png":  []byte("\x89PNG"),
		"jpeg": {0xff, 0xd8},
		"webp": []byte("RIFF"),
	}
	r := NewRegistry()
	for format, prefix := range magic {
		data, err := r.Get(format).Encode(testImage(), 0)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !bytes.HasPrefix(data, prefix) {
			t.Errorf("%s: unexpected header % x", format, data[:4])
		}
	}
}

func TestLossless_KeepsRawAlpha(t *testing.T) {
	raw := image.NewNRGBA(image.Rect(0, 0, 4, 24))
	for i := range raw.Pix {
		raw.Pix[i] = uint8(i*7 + 1)
	}
	for i := 3; i < len(raw.Pix); i += 4 {
		raw.Pix[i] = uint8(100 + i%120) // exponents, never opaque
	}

	tests := []struct {
		enc    Encoder
		decode func(io.Reader) (image.Image, error)
	}{
		{&PNGEncoder{Fast: true}, png.Decode},
		{&WebPEncoder{}, nativewebp.Decode},
	}
	for _, tt := range tests {
		data, err := tt.enc.Encode(raw, 0)
		if err != nil {
			t.Fatalf("%s: encode: %v", tt.enc.Format(), err)
		}
		back, err := tt.decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: decode: %v", tt.enc.Format(), err)
		}
		n, ok := back.(*image.NRGBA)
		if !ok {
			t.Fatalf("%s: decoded %T, want *image.NRGBA", tt.enc.Format(), back)
		}
		if !bytes.Equal(n.Pix, raw.Pix) {
			t.Errorf("%s: raw texels changed", tt.enc.Format())
		}
	}
}
