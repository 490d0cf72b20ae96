package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse marks malformed subtitle input. Fatal before any synthesis starts.
	ErrParse = errors.New("parse error")
	// ErrTiming marks an internal invariant violation in time redistribution.
	ErrTiming = errors.New("timing error")
	// ErrSynthesis marks a per-segment TTS failure, retryable up to a limit.
	ErrSynthesis = errors.New("synthesis error")
	// ErrAudioProcessing marks tempo-scale, fade, or mix failures.
	ErrAudioProcessing = errors.New("audio processing error")
	// ErrIO marks temp-file or final-write failures.
	ErrIO = errors.New("io error")
	// ErrConfiguration marks missing credentials or invalid thresholds.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether an error kind may be retried by the orchestrator.
// Synthesis failures retry up to the configured limit; audio processing failures
// retry once; everything else is terminal.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, ErrSynthesis), errors.Is(err, ErrAudioProcessing):
		return true
	default:
		return false
	}
}

// Details extracts a human-readable message from a wrapped service error.
type ErrorDetails struct {
	Message string
}

// Details returns the display details for a stage error.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	return ErrorDetails{Message: strings.TrimSpace(err.Error())}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
