package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	stageKey    contextKey = "stage"
	cueIndexKey contextKey = "cue_index"
)

// WithRunID annotates context with the synchronization run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(runIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(stageKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithCueIndex annotates context with the subtitle cue index being processed.
func WithCueIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, cueIndexKey, index)
}

// CueIndexFromContext extracts the cue index if present.
func CueIndexFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(cueIndexKey).(int); ok {
		return v, true
	}
	return 0, false
}
