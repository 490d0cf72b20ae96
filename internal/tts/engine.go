// Package tts defines the speech synthesis contract shared by all engine
// backends. The engine set is closed: configuration validates the engine
// name into an EngineKind once, and call sites never dispatch on strings.
package tts

import (
	"context"
	"fmt"
)

// EngineKind identifies a synthesis backend.
type EngineKind string

const (
	EngineOpenAI     EngineKind = "openai"
	EngineFishSpeech EngineKind = "fishspeech"
)

// ParseEngineKind validates an engine name from configuration.
func ParseEngineKind(name string) (EngineKind, error) {
	switch EngineKind(name) {
	case EngineOpenAI:
		return EngineOpenAI, nil
	case EngineFishSpeech:
		return EngineFishSpeech, nil
	default:
		return "", fmt.Errorf("unknown tts engine %q (expected %q or %q)",
			name, EngineOpenAI, EngineFishSpeech)
	}
}

// Request describes one utterance to synthesize.
type Request struct {
	Text  string
	Voice string
	Model string
	// Speed is the engine-side speaking-rate hint, 1.0 for natural pace.
	Speed float64
}

// Result is raw synthesized speech: mono 32-bit-float PCM plus the
// duration the engine produced before any time-stretching.
type Result struct {
	Samples         []float32
	SampleRate      int
	NaturalDuration float64
}

// Engine synthesizes speech for a single request. Implementations wrap
// failures in services.ErrSynthesis so callers can classify retries, and
// honor context cancellation on the underlying network or process call.
type Engine interface {
	Synthesize(ctx context.Context, req Request) (Result, error)
}
