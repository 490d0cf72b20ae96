package subtitles

import "strings"

// Cue is a single timed subtitle entry. Start and End are seconds from track
// origin. End > Start always holds for cues produced by Parse; cues within a
// track are ordered by Start and non-overlapping by convention.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the cue window length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// WordCount returns the whitespace-delimited token count of the cue text.
func (c Cue) WordCount() int {
	return len(strings.Fields(c.Text))
}

// Bounds returns the first start and last end across the cue sequence.
// Both are zero for an empty sequence.
func Bounds(cues []Cue) (first, last float64) {
	if len(cues) == 0 {
		return 0, 0
	}
	first = cues[0].Start
	last = cues[0].End
	for _, cue := range cues[1:] {
		if cue.Start < first {
			first = cue.Start
		}
		if cue.End > last {
			last = cue.End
		}
	}
	return first, last
}
