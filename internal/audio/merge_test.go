package audio

import (
	"errors"
	"math"
	"testing"

	"dubsync/internal/services"
)

func onesFragment(index int, start, end float64, rate int) *AudioFragment {
	n := int((end - start) * float64(rate))
	return &AudioFragment{
		Index:      index,
		Start:      start,
		End:        end,
		SampleRate: rate,
		Samples:    constantBuffer(n, 1.0),
	}
}

func TestMergeCrossfadeLength(t *testing.T) {
	// Two one-second fragments at 44.1kHz with a 0.1s crossfade merge into
	// 88200 - 4410 samples.
	fragments := []*AudioFragment{
		onesFragment(0, 0, 1, 44100),
		onesFragment(1, 1, 2, 44100),
	}

	out, err := Merge(fragments, 0.1)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if want := 88200 - 4410; len(out) != want {
		t.Fatalf("merged length = %d, want %d", len(out), want)
	}
}

func TestMergeCrossfadeOfOnesStaysFlat(t *testing.T) {
	// Linear crossfade of two all-ones buffers: (1-t) + t = 1 everywhere.
	fragments := []*AudioFragment{
		onesFragment(0, 0, 1, 44100),
		onesFragment(1, 1, 2, 44100),
	}

	out, err := Merge(fragments, 0.1)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for i, s := range out {
		if math.Abs(float64(s)-1.0) > 1e-6 {
			t.Fatalf("sample %d = %f, want 1.0", i, s)
		}
	}
}

func TestMergeDirectConcat(t *testing.T) {
	fragments := []*AudioFragment{
		onesFragment(0, 0, 0.5, 44100),
		onesFragment(1, 0.5, 1, 44100),
		onesFragment(2, 1, 1.5, 44100),
	}

	out, err := Merge(fragments, 0)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if want := 3 * 22050; len(out) != want {
		t.Fatalf("merged length = %d, want %d", len(out), want)
	}
}

func TestMergeShortensOversizedCrossfade(t *testing.T) {
	// A crossfade longer than the second fragment must not panic and must
	// be shortened to the fragment length.
	short := &AudioFragment{Index: 1, Start: 1, End: 1.001, SampleRate: 44100,
		Samples: constantBuffer(44, 1.0)}
	fragments := []*AudioFragment{onesFragment(0, 0, 1, 44100), short}

	out, err := Merge(fragments, 0.1)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if want := 44100; len(out) != want {
		t.Fatalf("merged length = %d, want %d", len(out), want)
	}
}

func TestMergeSingleFragment(t *testing.T) {
	out, err := Merge([]*AudioFragment{onesFragment(0, 0, 1, 44100)}, 0.1)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(out) != 44100 {
		t.Fatalf("merged length = %d, want 44100", len(out))
	}
}

func TestMergeRejectsMixedSampleRates(t *testing.T) {
	fragments := []*AudioFragment{
		onesFragment(0, 0, 1, 44100),
		onesFragment(1, 1, 2, 48000),
	}

	_, err := Merge(fragments, 0)
	if !errors.Is(err, services.ErrAudioProcessing) {
		t.Fatalf("err = %v, want ErrAudioProcessing", err)
	}
}

func TestMergeRejectsEmptyInput(t *testing.T) {
	_, err := Merge(nil, 0)
	if !errors.Is(err, services.ErrAudioProcessing) {
		t.Fatalf("err = %v, want ErrAudioProcessing", err)
	}
}
