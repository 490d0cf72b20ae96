// Package logging configures slog-based structured logging for dubsync.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Component loggers attach a standard
// component attribute; context helpers derive run_id, stage, and cue_index
// fields from the request context so pipeline logs stay correlated.
package logging
