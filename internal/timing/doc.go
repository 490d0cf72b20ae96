// Package timing analyzes speech-rate pressure on subtitle cues and
// redistributes slack from silent gaps to cues that cannot fit their text
// at a comfortable speaking rate.
package timing
