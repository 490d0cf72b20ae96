package timing

import (
	"dubsync/internal/subtitles"
)

// AnalysisConfig bounds what speech rates are considered comfortable.
type AnalysisConfig struct {
	// MaxWordsPerSecond is the highest comfortable speech rate.
	MaxWordsPerSecond float64
	// MaxSpeedFactor is the ceiling beyond which speech is considered
	// maximally degraded; it normalizes severity onto the 0-10 scale.
	MaxSpeedFactor float64
}

// DefaultAnalysisConfig returns the repository default thresholds.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		MaxWordsPerSecond: 2.5,
		MaxSpeedFactor:    1.8,
	}
}

// SegmentAnalysis describes speech-rate pressure for one cue.
type SegmentAnalysis struct {
	Index          int
	WordCount      int
	Duration       float64
	WordsPerSecond float64
	// Severity grades the timing problem from 0 (none) to 10 (maximally
	// degraded speech).
	Severity float64
	// RequiredSpeedFactor is WordsPerSecond / MaxWordsPerSecond. Values
	// above 1 mean the cue text does not fit its window at a comfortable
	// rate.
	RequiredSpeedFactor float64
}

// Analyze computes per-cue speech-rate pressure. The result is index-aligned
// with the input and the function is pure: it performs no I/O and never
// mutates its arguments.
func Analyze(cues []subtitles.Cue, cfg AnalysisConfig) []SegmentAnalysis {
	results := make([]SegmentAnalysis, 0, len(cues))

	for i, cue := range cues {
		duration := cue.Duration()
		wordCount := cue.WordCount()

		wordsPerSecond := 0.0
		if duration > 0 {
			wordsPerSecond = float64(wordCount) / duration
		}

		requiredSpeedFactor := 0.0
		if wordsPerSecond > 0 {
			requiredSpeedFactor = wordsPerSecond / cfg.MaxWordsPerSecond
		}

		severity := 0.0
		if requiredSpeedFactor > 1 {
			severity = 10 * (requiredSpeedFactor - 1) / (cfg.MaxSpeedFactor - 1)
			if severity > 10 {
				severity = 10
			}
		}

		results = append(results, SegmentAnalysis{
			Index:               i,
			WordCount:           wordCount,
			Duration:            duration,
			WordsPerSecond:      wordsPerSecond,
			Severity:            severity,
			RequiredSpeedFactor: requiredSpeedFactor,
		})
	}

	return results
}
