package srgb

import (
	"math"
	"testing"
)

func TestEncode_Endpoints(t *testing.T) {
	if got := Encode(0); got != 0 {
		t.Errorf("Encode(0) = %g, want 0", got)
	}
	if got := Encode(1); math.Abs(got-1) > 1e-12 {
		t.Errorf("Encode(1) = %g, want 1", got)
	}
}

func TestEncode_ContinuousAtBreakpoint(t *testing.T) {
	linear := Breakpoint * 12.92
	power := 1.055*math.Pow(Breakpoint, 1/2.4) - 0.055
	if math.Abs(linear-power) > 1e-6 {
		t.Errorf("branches differ at breakpoint: %g vs %g", linear, power)
	}
	below := Encode(math.Nextafter(Breakpoint, 0))
	above := Encode(math.Nextafter(Breakpoint, 1))
	if math.Abs(above-below) > 1e-6 {
		t.Errorf("discontinuity: %g vs %g", below, above)
	}
}

func TestEncode_Monotonic(t *testing.T) {
	prev := Encode(0)
	for i := 1; i <= 1000; i++ {
		v := Encode(float64(i) / 1000)
		if v < prev {
			t.Fatalf("not monotonic at %d: %g < %g", i, v, prev)
		}
		prev = v
	}
}

func TestDecode_InvertsEncode(t *testing.T) {
	for _, x := range []float64{0, 0.001, Breakpoint, 0.01, 0.18, 0.5, 0.9, 1} {
		if got := Decode(Encode(x)); math.Abs(got-x) > 1e-6 {
			t.Errorf("Decode(Encode(%g)) = %g", x, got)
		}
	}
}

func TestToByte(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{1, 255},
		{-0.5, 0},
		{1.5, 255},
		{math.NaN(), 0},
		{math.Inf(1), 255},
		{0.5, 128},          // 127.5 rounds to even
		{100.4 / 255, 100},
	}
	for _, tt := range tests {
		if got := ToByte(tt.in); got != tt.want {
			t.Errorf("ToByte(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeByte_MidGray(t *testing.T) {
	// 255 * Encode(0.5) = 187.516...
	if got := EncodeByte(0.5); got != 188 {
		t.Errorf("EncodeByte(0.5) = %d, want 188", got)
	}
}
