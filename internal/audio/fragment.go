package audio

import (
	"fmt"

	"dubsync/internal/services"
)

// DefaultSampleRate is the working sample rate for all synthesized audio.
const DefaultSampleRate = 44100

// Tempo factors outside this range produce audible artifacts and signal an
// upstream timing or synthesis failure.
const (
	TempoMin = 0.5
	TempoMax = 2.0
)

// AudioFragment is one synthesized utterance positioned at its cue window.
// Samples are mono 32-bit-float PCM. Fade and stretch operations mutate the
// buffer in place; once merged into the track the fragment is spent.
type AudioFragment struct {
	Index      int
	Start      float64
	End        float64
	SampleRate int
	Samples    []float32
}

// Duration returns the window length in seconds.
func (f *AudioFragment) Duration() float64 {
	return f.End - f.Start
}

// SampleCount returns the number of samples the window spans at the
// fragment's sample rate.
func (f *AudioFragment) SampleCount() int {
	return int(f.Duration() * float64(f.SampleRate))
}

// FragmentProcessingConfig controls per-fragment shaping and the final
// loudness target.
type FragmentProcessingConfig struct {
	// FadeIn and FadeOut are the raised-cosine ramp lengths in seconds.
	FadeIn  float64
	FadeOut float64
	// Crossfade is the overlap between adjacent fragments during the merge,
	// in seconds. Zero means direct concatenation.
	Crossfade float64
	// TargetLevel is the peak normalization target in dBFS.
	TargetLevel float64
	// MinTempo and MaxTempo bound the speed factor applied when fitting an
	// utterance into its window. Zero values fall back to TempoMin/TempoMax.
	MinTempo float64
	MaxTempo float64
}

// DefaultFragmentProcessingConfig returns the repository defaults: 20 ms
// fades, no crossfade, -14 dBFS target.
func DefaultFragmentProcessingConfig() FragmentProcessingConfig {
	return FragmentProcessingConfig{
		FadeIn:      0.020,
		FadeOut:     0.020,
		Crossfade:   0,
		TargetLevel: -14.0,
		MinTempo:    TempoMin,
		MaxTempo:    TempoMax,
	}
}

// TempoFactor computes the speed factor needed to fit naturalDuration into
// windowDuration, clamped to [minFactor, maxFactor]. A non-positive or
// inverted range falls back to TempoMin/TempoMax. The second return reports
// whether clamping occurred; callers surface it as a quality warning rather
// than an error.
func TempoFactor(naturalDuration, windowDuration, minFactor, maxFactor float64) (float64, bool) {
	if minFactor <= 0 || maxFactor <= minFactor {
		minFactor, maxFactor = TempoMin, TempoMax
	}
	if windowDuration <= 0 {
		return maxFactor, true
	}
	factor := naturalDuration / windowDuration
	if factor < minFactor {
		return minFactor, true
	}
	if factor > maxFactor {
		return maxFactor, true
	}
	return factor, false
}

// EnsureMinLength zero-pads samples to at least minSamples. Synthesis
// results shorter than a usable fade window are padded rather than
// rejected.
func EnsureMinLength(samples []float32, minSamples int) []float32 {
	if len(samples) >= minSamples {
		return samples
	}
	padded := make([]float32, minSamples)
	copy(padded, samples)
	return padded
}

func validateFragments(fragments []*AudioFragment) error {
	if len(fragments) == 0 {
		return services.Wrap(services.ErrAudioProcessing, "audio", "merge", "no fragments to merge", nil)
	}
	rate := fragments[0].SampleRate
	for _, f := range fragments {
		if f.SampleRate != rate {
			return services.Wrap(services.ErrAudioProcessing, "audio", "merge",
				fmt.Sprintf("fragment %d sample rate %d differs from %d", f.Index, f.SampleRate, rate), nil)
		}
	}
	return nil
}
