package syncer

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"dubsync/internal/audio"
	"dubsync/internal/services"
	"dubsync/internal/subtitles"
	"dubsync/internal/tts"
)

// assembleAll turns each synthesized utterance into a window-fitted
// fragment: tempo-stretch to the adjusted cue window, zero-pad anything too
// short for the fades, then apply them. Fragments have no cross-fragment
// dependency, so assembly runs on a worker pool sized to the CPU count;
// the returned slice is ordered by cue index for the sequential merge.
func (s *Syncer) assembleAll(ctx context.Context, adjusted []subtitles.Cue, synthesized []tts.Result) ([]*audio.AudioFragment, []Warning, error) {
	procCfg := s.fragmentConfig()
	fragments := make([]*audio.AudioFragment, len(adjusted))
	warnings := make([]Warning, 0)

	jobs := make(chan int)
	workers := runtime.NumCPU()
	if workers > len(adjusted) {
		workers = len(adjusted)
	}
	if workers < 1 {
		workers = 1
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fragment, warning, err := s.assembleFragment(ctx, i, adjusted[i], synthesized[i], procCfg)
				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
				} else {
					fragments[i] = fragment
					if warning != nil {
						warnings = append(warnings, *warning)
					}
				}
				mu.Unlock()
			}
		}()
	}

	for i := range adjusted {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, nil, firstErr
	}
	return fragments, warnings, nil
}

func (s *Syncer) fragmentConfig() audio.FragmentProcessingConfig {
	return audio.FragmentProcessingConfig{
		FadeIn:      float64(s.cfg.Audio.FadeInMs) / 1000,
		FadeOut:     float64(s.cfg.Audio.FadeOutMs) / 1000,
		Crossfade:   float64(s.cfg.Audio.CrossfadeMs) / 1000,
		TargetLevel: s.cfg.Audio.TargetLevelDB,
		MinTempo:    s.cfg.Audio.MinTempo,
		MaxTempo:    s.cfg.Audio.MaxTempo,
	}
}

// assembleFragment fits one utterance into its cue window. A tempo factor
// outside the supported range is clamped and surfaced as a warning rather
// than failing the run.
func (s *Syncer) assembleFragment(ctx context.Context, index int, cue subtitles.Cue, synth tts.Result, procCfg audio.FragmentProcessingConfig) (*audio.AudioFragment, *Warning, error) {
	window := cue.Duration()
	factor, clamped := audio.TempoFactor(synth.NaturalDuration, window, procCfg.MinTempo, procCfg.MaxTempo)

	var warning *Warning
	if clamped {
		warning = &Warning{
			Stage:    "assemble",
			CueIndex: index,
			Message: fmt.Sprintf("cue %d tempo clamped to %.2fx (natural %.2fs into %.2fs window)",
				index, factor, synth.NaturalDuration, window),
		}
	}

	samples := synth.Samples
	if factor != 1.0 {
		stretched, err := s.proc.Stretch(ctx, samples, synth.SampleRate, factor)
		if err != nil && services.Retryable(err) && ctx.Err() == nil {
			// Transient DSP failures get one more chance before the run fails.
			stretched, err = s.proc.Stretch(ctx, samples, synth.SampleRate, factor)
		}
		if err != nil {
			return nil, nil, err
		}
		samples = stretched
	}

	minSamples := int((procCfg.FadeIn + procCfg.FadeOut) * float64(synth.SampleRate))
	samples = audio.EnsureMinLength(samples, minSamples)

	fragment := &audio.AudioFragment{
		Index:      index,
		Start:      cue.Start,
		End:        cue.End,
		SampleRate: synth.SampleRate,
		Samples:    samples,
	}
	audio.ApplyFades(fragment, procCfg)
	return fragment, warning, nil
}
