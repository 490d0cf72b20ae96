// Command dubsync synthesizes translated speech for a subtitle track and
// synchronizes it to the cue timeline, producing one audio (or remuxed
// audio+video) artifact.
package main
