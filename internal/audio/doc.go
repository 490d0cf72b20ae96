// Package audio shapes synthesized speech fragments into one continuous
// track: raised-cosine fades, crossfade merging, loudness normalization,
// and speech/background mixing. Pitch-preserving time-stretch is delegated
// to ffmpeg and lives in services/ffmpegio.
package audio
