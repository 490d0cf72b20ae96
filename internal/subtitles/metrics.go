package subtitles

import "math"

// TimingMetrics summarizes a track's cue timing. Diagnostics only; nothing in
// the pipeline branches on these values.
type TimingMetrics struct {
	AvgDuration float64
	MinDuration float64
	MaxDuration float64
	AvgGap      float64
}

// Metrics computes per-track timing statistics. The average gap counts only
// positive gaps between consecutive cues.
func Metrics(cues []Cue) TimingMetrics {
	if len(cues) == 0 {
		return TimingMetrics{}
	}

	var (
		totalDuration float64
		minDuration   = math.Inf(1)
		maxDuration   float64
		totalGap      float64
		gapCount      int
	)

	for i, cue := range cues {
		duration := cue.Duration()
		totalDuration += duration
		minDuration = math.Min(minDuration, duration)
		maxDuration = math.Max(maxDuration, duration)

		if i < len(cues)-1 {
			gap := cues[i+1].Start - cue.End
			if gap > 0 {
				totalGap += gap
				gapCount++
			}
		}
	}

	avgGap := 0.0
	if gapCount > 0 {
		avgGap = totalGap / float64(gapCount)
	}

	return TimingMetrics{
		AvgDuration: totalDuration / float64(len(cues)),
		MinDuration: minDuration,
		MaxDuration: maxDuration,
		AvgGap:      avgGap,
	}
}
