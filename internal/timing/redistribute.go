package timing

import (
	"fmt"
	"math"

	"dubsync/internal/services"
	"dubsync/internal/subtitles"
)

const spanTolerance = 1e-6

// Warning reports a cue whose timing pressure could not be fully resolved
// by borrowing slack from neighboring gaps.
type Warning struct {
	CueIndex int
	// ResidualFactor is the speed factor still required after
	// redistribution.
	ResidualFactor float64
	Message        string
}

// Redistribute widens overloaded cues into the silent gaps around them.
//
// Cues are visited in index order. A cue whose required speed factor
// exceeds 1 needs deficit = duration*(factor-1) extra seconds; it may claim
// at most half of the remaining slack in the gap before it and half of the
// remaining slack in the gap after it, so the cue on the other side of a
// shared gap keeps an equal opportunity. The first cue's start and the last
// cue's end never move. Deficits that cannot be covered are reported as
// warnings and left for tempo adjustment downstream.
//
// The input slice is never mutated; the adjusted cues are returned as a new
// slice together with any warnings.
func Redistribute(cues []subtitles.Cue, analysis []SegmentAnalysis, cfg AnalysisConfig) ([]subtitles.Cue, []Warning, error) {
	if len(cues) != len(analysis) {
		return nil, nil, services.Wrap(services.ErrTiming, "timing", "redistribute",
			fmt.Sprintf("analysis length %d does not match cue count %d", len(analysis), len(cues)), nil)
	}
	if len(cues) == 0 {
		return nil, nil, nil
	}

	adjusted := make([]subtitles.Cue, len(cues))
	copy(adjusted, cues)

	// slack[i] is the remaining free time in the gap before cue i. The gap
	// before the first cue and after the last cue is off limits because
	// track bounds are fixed.
	slack := make([]float64, len(cues)+1)
	for i := 1; i < len(cues); i++ {
		slack[i] = adjusted[i].Start - adjusted[i-1].End
		if slack[i] < 0 {
			return nil, nil, services.Wrap(services.ErrTiming, "timing", "redistribute",
				fmt.Sprintf("cue %d starts before cue %d ends", i, i-1), nil)
		}
	}

	var warnings []Warning

	for i := range adjusted {
		factor := analysis[i].RequiredSpeedFactor
		if factor <= 1 {
			continue
		}

		deficit := adjusted[i].Duration() * (factor - 1)

		claimBefore := math.Min(deficit, slack[i]/2)
		claimAfter := math.Min(deficit-claimBefore, slack[i+1]/2)

		adjusted[i].Start -= claimBefore
		adjusted[i].End += claimAfter
		slack[i] -= claimBefore
		slack[i+1] -= claimAfter

		residual := deficit - claimBefore - claimAfter
		if residual > spanTolerance {
			// The cue still needs the original speech time, so the leftover
			// factor is the ratio of required time to the widened window.
			residualFactor := cues[i].Duration() * factor / adjusted[i].Duration()
			warnings = append(warnings, Warning{
				CueIndex:       i,
				ResidualFactor: residualFactor,
				Message: fmt.Sprintf("cue %d still requires %.2fx speed after redistribution (%.3fs unresolved)",
					i, residualFactor, residual),
			})
		}
	}

	if err := checkInvariants(cues, adjusted); err != nil {
		return nil, nil, err
	}

	return adjusted, warnings, nil
}

func checkInvariants(original, adjusted []subtitles.Cue) error {
	for i := range adjusted {
		if adjusted[i].End <= adjusted[i].Start {
			return services.Wrap(services.ErrTiming, "timing", "redistribute",
				fmt.Sprintf("cue %d collapsed to a non-positive duration", i), nil)
		}
		if i > 0 && adjusted[i].Start < adjusted[i-1].End-spanTolerance {
			return services.Wrap(services.ErrTiming, "timing", "redistribute",
				fmt.Sprintf("cue %d overlaps cue %d after redistribution", i, i-1), nil)
		}
	}

	first, last := 0, len(adjusted)-1
	if math.Abs(adjusted[first].Start-original[first].Start) > spanTolerance ||
		math.Abs(adjusted[last].End-original[last].End) > spanTolerance {
		return services.Wrap(services.ErrTiming, "timing", "redistribute",
			"redistribution moved the track bounds", nil)
	}

	return nil
}
