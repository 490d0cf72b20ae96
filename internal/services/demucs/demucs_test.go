package demucs

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"dubsync/internal/services"
)

func TestSeparateBuildsArgsAndStemPaths(t *testing.T) {
	var gotArgs []string
	svc := NewService("", "")
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != Command {
			t.Fatalf("binary = %q, want %q", name, Command)
		}
		gotArgs = args
		return nil
	})

	sep, err := svc.Separate(context.Background(), "/media/track.wav", "/tmp/stems")
	if err != nil {
		t.Fatalf("Separate: %v", err)
	}

	for _, want := range []string{"--two-stems", "vocals", "htdemucs", "/tmp/stems", "/media/track.wav"} {
		if !slices.Contains(gotArgs, want) {
			t.Fatalf("args missing %q: %v", want, gotArgs)
		}
	}

	wantVocals := filepath.Join("/tmp/stems", "htdemucs", "track", "vocals.wav")
	if sep.VocalsPath != wantVocals {
		t.Fatalf("vocals path = %q, want %q", sep.VocalsPath, wantVocals)
	}
	wantInstrumental := filepath.Join("/tmp/stems", "htdemucs", "track", "no_vocals.wav")
	if sep.InstrumentalPath != wantInstrumental {
		t.Fatalf("instrumental path = %q, want %q", sep.InstrumentalPath, wantInstrumental)
	}
}

func TestSeparateToolFailure(t *testing.T) {
	svc := NewService("", "")
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 2")
	})

	_, err := svc.Separate(context.Background(), "/media/track.wav", "/tmp/stems")
	if !errors.Is(err, services.ErrAudioProcessing) {
		t.Fatalf("err = %v, want ErrAudioProcessing", err)
	}
}

func TestSeparateRequiresSource(t *testing.T) {
	svc := NewService("", "")

	_, err := svc.Separate(context.Background(), "", "/tmp/stems")
	if !errors.Is(err, services.ErrAudioProcessing) {
		t.Fatalf("err = %v, want ErrAudioProcessing", err)
	}
}
