package subtitles

import (
	"fmt"
	"io"
	"math"
)

// Write serializes cues as a WebVTT track. Parsing the output yields an
// identical cue sequence (timestamps are written with millisecond precision).
func Write(w io.Writer, cues []Cue) error {
	if _, err := io.WriteString(w, "WEBVTT\n\n"); err != nil {
		return err
	}
	for _, cue := range cues {
		if _, err := fmt.Fprintf(w, "%s --> %s\n%s\n\n",
			formatTimestamp(cue.Start), formatTimestamp(cue.End), cue.Text); err != nil {
			return err
		}
	}
	return nil
}

func formatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}
