// Package services provides shared error classification and context annotation
// for dubsync pipeline components.
//
// Leaf components wrap failures with one of the sentinel error kinds (parse,
// timing, synthesis, audio processing, io, configuration); the orchestrator
// classifies them with errors.Is to decide between retry and abort. Context
// helpers carry the run ID, stage name, and cue index so loggers can attach
// them automatically.
package services
