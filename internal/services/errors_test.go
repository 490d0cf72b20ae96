package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	base := fmt.Errorf("connection refused")
	err := Wrap(ErrSynthesis, "synthesizing", "request", "cue 4", base)

	if !errors.Is(err, ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrConfiguration, "", "load", "api key missing", nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration marker, got %v", err)
	}
	want := "configuration error: load: api key missing"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsToIO(t *testing.T) {
	err := Wrap(nil, "encoding", "write", "", errors.New("disk full"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO fallback, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"synthesis", Wrap(ErrSynthesis, "s", "o", "", nil), true},
		{"audio", Wrap(ErrAudioProcessing, "s", "o", "", nil), true},
		{"parse", Wrap(ErrParse, "s", "o", "", nil), false},
		{"timing", Wrap(ErrTiming, "s", "o", "", nil), false},
		{"io", Wrap(ErrIO, "s", "o", "", nil), false},
		{"configuration", Wrap(ErrConfiguration, "s", "o", "", nil), false},
	}
	for _, tc := range cases {
		if got := Retryable(tc.err); got != tc.want {
			t.Errorf("%s: Retryable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
