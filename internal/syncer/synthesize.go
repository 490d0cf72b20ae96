package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dubsync/internal/fragmentcache"
	"dubsync/internal/logging"
	"dubsync/internal/services"
	"dubsync/internal/subtitles"
	"dubsync/internal/tts"
)

// synthesizeAll drives the engine with bounded concurrency. Results come
// back index-aligned with the cues regardless of completion order. The
// first terminal failure cancels the remaining in-flight requests.
func (s *Syncer) synthesizeAll(ctx context.Context, cues []subtitles.Cue, logger *slog.Logger) ([]tts.Result, error) {
	total := len(cues)
	s.emit(logger, Progress{State: StateSynthesizingSegments, Current: 0, Total: total})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]tts.Result, total)
	sem := make(chan struct{}, s.cfg.TTS.MaxConcurrentRequests)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error

		// Completion events are published under a mutex so the sink sees a
		// strictly increasing counter and never a concurrent Publish call.
		progressMu sync.Mutex
		done       int
	)

	for i, cue := range cues {
		wg.Add(1)
		go func(index int, cue subtitles.Cue) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-runCtx.Done():
				return
			}
			defer func() { <-sem }()

			result, err := s.synthesizeCue(runCtx, index, cue)
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}

			results[index] = result
			progressMu.Lock()
			done++
			s.emit(logger, Progress{
				State:   StateSynthesizingSegments,
				Current: done,
				Total:   total,
			})
			progressMu.Unlock()
		}(i, cue)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// synthesizeCue synthesizes one segment, consulting the cache first and
// retrying transient failures up to the configured limit.
func (s *Syncer) synthesizeCue(ctx context.Context, index int, cue subtitles.Cue) (tts.Result, error) {
	var empty tts.Result
	ctx = services.WithCueIndex(ctx, index)

	text := subtitles.CleanText(cue.Text)
	req := tts.Request{
		Text:  text,
		Voice: s.cfg.TTS.Voice,
		Model: s.cfg.TTS.Model,
		Speed: s.cfg.TTS.Speed,
	}
	key := fragmentcache.Key{
		Text:   text,
		Voice:  req.Voice,
		Model:  req.Model,
		Speed:  req.Speed,
		Engine: s.cfg.EngineKind(),
	}

	if s.cache != nil {
		if cached, found, err := s.cache.Lookup(ctx, key); err == nil && found {
			return cached, nil
		}
	}

	attempts := s.cfg.TTS.RetryLimit + 1
	timeout := time.Duration(s.cfg.TTS.TimeoutSeconds) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return empty, err
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := s.engine.Synthesize(callCtx, req)
		cancel()

		if err == nil {
			if s.cache != nil {
				if storeErr := s.cache.Store(ctx, key, result); storeErr != nil {
					s.logger.Warn("fragment cache store failed",
						logging.Int("cue_index", index),
						logging.Error(storeErr))
				}
			}
			return result, nil
		}

		lastErr = err
		// A per-call timeout with the run still live counts as transient.
		timedOut := callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil
		if !services.Retryable(err) && !timedOut {
			break
		}
	}

	return empty, services.Wrap(services.ErrSynthesis, "synthesize", "segment",
		fmt.Sprintf("cue %d failed after %d attempts", index, attempts), lastErr)
}
