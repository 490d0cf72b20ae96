package audio

import (
	"math"
	"testing"
)

func constantBuffer(n int, v float32) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestFadesOnConstantBuffer(t *testing.T) {
	// One second at 44.1kHz with 20ms fades: edges near zero, midpoint
	// untouched.
	buf := constantBuffer(44100, 1.0)

	FadeIn(buf, 44100, 0.020)
	FadeOut(buf, 44100, 0.020)

	if math.Abs(float64(buf[0])) > 1e-6 {
		t.Fatalf("first sample = %f, want ~0", buf[0])
	}
	last := buf[len(buf)-1]
	// The mirrored ramp's final sample sits one step above exact zero.
	if math.Abs(float64(last)) > 0.01 {
		t.Fatalf("last sample = %f, want ~0", last)
	}
	mid := buf[len(buf)/2]
	if math.Abs(float64(mid)-1.0) > 1e-6 {
		t.Fatalf("midpoint = %f, want 1.0", mid)
	}
}

func TestFadeHalfwayGain(t *testing.T) {
	buf := constantBuffer(1000, 1.0)
	FadeIn(buf, 1000, 0.1) // 100-sample ramp

	// Raised cosine reaches 0.5 at the ramp midpoint.
	if math.Abs(float64(buf[50])-0.5) > 1e-6 {
		t.Fatalf("ramp midpoint = %f, want 0.5", buf[50])
	}
	if buf[100] != 1.0 {
		t.Fatalf("sample past ramp = %f, want 1.0", buf[100])
	}
}

func TestFadesClippedOnShortBuffer(t *testing.T) {
	// 100 samples but 20ms at 44.1kHz would be 882 per fade: each window
	// clips to half the buffer.
	buf := constantBuffer(100, 1.0)

	FadeIn(buf, 44100, 0.020)
	FadeOut(buf, 44100, 0.020)

	if math.Abs(float64(buf[0])) > 1e-6 {
		t.Fatalf("first sample = %f, want ~0", buf[0])
	}
	for i, s := range buf {
		if math.IsNaN(float64(s)) {
			t.Fatalf("sample %d is NaN", i)
		}
	}
}

func TestFadeZeroDurationIsNoop(t *testing.T) {
	buf := constantBuffer(10, 1.0)
	FadeIn(buf, 44100, 0)
	FadeOut(buf, 44100, 0)
	for i, s := range buf {
		if s != 1.0 {
			t.Fatalf("sample %d = %f, want 1.0", i, s)
		}
	}
}
