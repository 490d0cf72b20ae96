package audio

import "math"

// fadeSamples converts a fade duration to a sample count, clipped so that
// fade-in and fade-out together never exceed the buffer.
func fadeSamples(duration float64, sampleRate, bufLen int) int {
	n := int(duration * float64(sampleRate))
	if 2*n > bufLen {
		n = bufLen / 2
	}
	if n < 0 {
		n = 0
	}
	return n
}

// FadeIn applies a raised-cosine ramp over the first duration seconds of
// the buffer, in place. The window is clipped when the buffer is shorter
// than two full fades.
func FadeIn(samples []float32, sampleRate int, duration float64) {
	n := fadeSamples(duration, sampleRate, len(samples))
	for i := 0; i < n; i++ {
		gain := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(n)))
		samples[i] *= float32(gain)
	}
}

// FadeOut applies the mirrored raised-cosine ramp over the last duration
// seconds of the buffer, in place.
func FadeOut(samples []float32, sampleRate int, duration float64) {
	n := fadeSamples(duration, sampleRate, len(samples))
	offset := len(samples) - n
	for i := 0; i < n; i++ {
		gain := 0.5 * (1 + math.Cos(math.Pi*float64(i)/float64(n)))
		samples[offset+i] *= float32(gain)
	}
}

// ApplyFades runs the configured fade-in and fade-out on a fragment's
// buffer.
func ApplyFades(f *AudioFragment, cfg FragmentProcessingConfig) {
	FadeIn(f.Samples, f.SampleRate, cfg.FadeIn)
	FadeOut(f.Samples, f.SampleRate, cfg.FadeOut)
}
