package audio

import "math"

// Peak returns the largest absolute sample value in the buffer.
func Peak(samples []float32) float64 {
	peak := 0.0
	for _, s := range samples {
		if v := math.Abs(float64(s)); v > peak {
			peak = v
		}
	}
	return peak
}

// RMS returns the root-mean-square level of the buffer.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// NormalizePeak scales the buffer in place so its peak matches the dBFS
// target. A silent buffer is left untouched.
func NormalizePeak(samples []float32, targetDB float64) {
	peak := Peak(samples)
	if peak == 0 {
		return
	}
	gain := float32(math.Pow(10, targetDB/20) / peak)
	for i := range samples {
		samples[i] *= gain
	}
}

// NormalizeRMS scales the buffer in place toward the target RMS level,
// then backs off if the resulting peak would clip.
func NormalizeRMS(samples []float32, targetRMS float64) {
	rms := RMS(samples)
	if rms == 0 {
		return
	}
	gain := targetRMS / rms
	if peak := Peak(samples) * gain; peak > 1.0 {
		gain /= peak
	}
	g := float32(gain)
	for i := range samples {
		samples[i] *= g
	}
}

// MixTracks blends speech over background at the given speech ratio
// (background gets 1-ratio). The output is speech-length; a shorter
// background contributes silence past its end. If the mix would clip, the
// whole buffer is scaled back under full scale.
func MixTracks(speech, background []float32, speechRatio float64) []float32 {
	sr := float32(speechRatio)
	br := float32(1 - speechRatio)

	out := make([]float32, len(speech))
	for i := range speech {
		v := speech[i] * sr
		if i < len(background) {
			v += background[i] * br
		}
		out[i] = v
	}

	if peak := Peak(out); peak > 1.0 {
		gain := float32(1.0 / peak)
		for i := range out {
			out[i] *= gain
		}
	}
	return out
}
