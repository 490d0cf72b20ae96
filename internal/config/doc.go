// Package config loads, normalizes, and validates dubsync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY (including .env files). The Config type centralizes every
// knob the CLI needs: synthesis engine credentials, timing thresholds,
// fragment shaping, and output behavior.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
