// Package subtitles parses and serializes WebVTT-style cue tracks and
// computes timing diagnostics over them.
package subtitles
