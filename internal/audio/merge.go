package audio

// Merge concatenates fragments in index order into one continuous track.
// When crossfade is positive, the tail of each fragment overlaps the head
// of the next for that duration with a linear crossfade, so the merged
// length is sum(fragment lengths) - (N-1)*crossfade samples. A crossfade
// longer than either neighbor is shortened to fit.
//
// Fragments must share a sample rate and must already be ordered by cue
// index; the merge itself is strictly sequential.
func Merge(fragments []*AudioFragment, crossfade float64) ([]float32, error) {
	if err := validateFragments(fragments); err != nil {
		return nil, err
	}

	rate := fragments[0].SampleRate
	crossfadeSamples := int(crossfade * float64(rate))
	if crossfadeSamples < 0 {
		crossfadeSamples = 0
	}

	total := 0
	for _, f := range fragments {
		total += len(f.Samples)
	}

	out := make([]float32, 0, total)
	out = append(out, fragments[0].Samples...)

	for _, f := range fragments[1:] {
		n := crossfadeSamples
		if n > len(out) {
			n = len(out)
		}
		if n > len(f.Samples) {
			n = len(f.Samples)
		}

		tail := len(out) - n
		for i := 0; i < n; i++ {
			t := float32(i) / float32(n)
			out[tail+i] = out[tail+i]*(1-t) + f.Samples[i]*t
		}
		out = append(out, f.Samples[n:]...)
	}

	return out, nil
}
