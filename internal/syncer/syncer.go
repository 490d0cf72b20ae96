// Package syncer orchestrates a full dubbing run: parse the subtitle
// track, analyze and redistribute cue timing, synthesize each segment,
// assemble and merge the audio fragments, normalize, and publish one
// output artifact atomically.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dubsync/internal/audio"
	"dubsync/internal/config"
	"dubsync/internal/fileutil"
	"dubsync/internal/fragmentcache"
	"dubsync/internal/logging"
	"dubsync/internal/services"
	"dubsync/internal/services/demucs"
	"dubsync/internal/subtitles"
	"dubsync/internal/timing"
	"dubsync/internal/tts"
)

// AudioProcessor is the external DSP capability a run needs. Satisfied by
// ffmpegio.Service.
type AudioProcessor interface {
	DecodeFile(ctx context.Context, path string, sampleRate int) ([]float32, error)
	Stretch(ctx context.Context, samples []float32, sampleRate int, factor float64) ([]float32, error)
	EncodeWAV(ctx context.Context, samples []float32, sampleRate int, dest string) error
	Remux(ctx context.Context, videoPath, audioPath, subtitlePath, dest string) error
}

// Separator splits a track into vocal and instrumental stems. Satisfied by
// demucs.Service.
type Separator interface {
	Separate(ctx context.Context, source, outDir string) (demucs.Separation, error)
}

// Cache stores synthesized utterances across runs. Satisfied by
// fragmentcache.Store.
type Cache interface {
	Lookup(ctx context.Context, key fragmentcache.Key) (tts.Result, bool, error)
	Store(ctx context.Context, key fragmentcache.Key, result tts.Result) error
}

// Request describes one synchronization run.
type Request struct {
	SubtitlePath string
	OutputPath   string
	// OriginalAudioPath, when set, is blended under the dub as background.
	OriginalAudioPath string
	// VideoPath, when set, triggers a remux of the video stream with the
	// synchronized audio instead of a bare audio file.
	VideoPath string
}

// Result is the success payload of a run.
type Result struct {
	OutputPath string
	// Duration is the length of the produced audio in seconds.
	Duration float64
	Warnings []Warning
}

// Syncer drives the synchronization pipeline.
type Syncer struct {
	cfg       *config.Config
	engine    tts.Engine
	proc      AudioProcessor
	separator Separator
	cache     Cache
	sink      ProgressSink
	logger    *slog.Logger

	emitMu sync.Mutex
}

// Option customizes a Syncer.
type Option func(*Syncer)

// WithCache enables the cross-run fragment cache.
func WithCache(cache Cache) Option {
	return func(s *Syncer) { s.cache = cache }
}

// WithSeparator enables demucs background separation.
func WithSeparator(sep Separator) Option {
	return func(s *Syncer) { s.separator = sep }
}

// WithProgressSink sets the observer for state transitions.
func WithProgressSink(sink ProgressSink) Option {
	return func(s *Syncer) { s.sink = sink }
}

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Syncer. The engine and processor are required; cache,
// separator, and sink are optional.
func New(cfg *config.Config, engine tts.Engine, proc AudioProcessor, opts ...Option) *Syncer {
	s := &Syncer{
		cfg:    cfg,
		engine: engine,
		proc:   proc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "syncer")
	return s
}

// Run executes the full pipeline. On failure no file is left at the
// published path and the run's temporary workspace is removed; on success
// the output is moved into place atomically.
func (s *Syncer) Run(ctx context.Context, req Request) (Result, error) {
	var empty Result

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := s.logger.With(logging.String(logging.FieldRunID, runID))

	// Every failure path ends in a terminal error transition.
	fail := func(err error) (Result, error) {
		s.emit(logger, Progress{State: StateError, Reason: err.Error()})
		return empty, err
	}

	if req.SubtitlePath == "" || req.OutputPath == "" {
		return fail(services.Wrap(services.ErrConfiguration, "syncer", "run",
			"subtitle path and output path are required", nil))
	}

	// One publisher per output path at a time. The lock file itself is left
	// behind: removing it would race a second process that flocked the same
	// path between our unlock and the remove.
	lock := flock.New(req.OutputPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fail(services.Wrap(services.ErrIO, "syncer", "lock", "acquire output lock", err))
	}
	if !locked {
		return fail(services.Wrap(services.ErrIO, "syncer", "lock",
			fmt.Sprintf("another run is publishing %s", req.OutputPath), nil))
	}
	defer func() { _ = lock.Unlock() }()

	workspace, cleanup, err := s.openWorkspace(runID, logger)
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	result, err := s.run(ctx, req, workspace, logger)
	if err != nil {
		return fail(err)
	}
	return result, nil
}

// openWorkspace creates the run-scoped temp directory and returns a cleanup
// that removes it on every exit path unless configured to persist.
func (s *Syncer) openWorkspace(runID string, logger *slog.Logger) (string, func(), error) {
	workspace := filepath.Join(s.cfg.Paths.WorkspaceDir, "run-"+runID)
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return "", nil, services.Wrap(services.ErrIO, "syncer", "workspace", "create workspace", err)
	}
	cleanup := func() {
		if s.cfg.Output.KeepWorkspace {
			logger.Info("keeping run workspace", logging.String("path", workspace))
			return
		}
		if err := os.RemoveAll(workspace); err != nil {
			logger.Warn("remove workspace failed", logging.Error(err))
		}
	}
	return workspace, cleanup, nil
}

func (s *Syncer) run(ctx context.Context, req Request, workspace string, logger *slog.Logger) (Result, error) {
	var empty Result
	s.emit(logger, Progress{State: StateStarted})

	s.emit(logger, Progress{State: StateParsingSubtitles})
	cues, err := subtitles.Parse(req.SubtitlePath)
	if err != nil {
		return empty, err
	}
	if len(cues) == 0 {
		return empty, services.Wrap(services.ErrParse, "syncer", "parse",
			fmt.Sprintf("no cues in %s", req.SubtitlePath), nil)
	}
	logger.Info("parsed subtitle track",
		logging.Int("cues", len(cues)),
		logging.String("path", req.SubtitlePath))

	s.emit(logger, Progress{State: StateAnalyzing})
	analysisCfg := timing.AnalysisConfig{
		MaxWordsPerSecond: s.cfg.Analysis.MaxWordsPerSecond,
		MaxSpeedFactor:    s.cfg.Analysis.MaxSpeedFactor,
	}
	analysis := timing.Analyze(cues, analysisCfg)
	adjusted, timingWarnings, err := timing.Redistribute(cues, analysis, analysisCfg)
	if err != nil {
		return empty, err
	}

	var warnings []Warning
	for _, w := range timingWarnings {
		warnings = append(warnings, Warning{Stage: "timing", CueIndex: w.CueIndex, Message: w.Message})
	}

	synthesized, err := s.synthesizeAll(ctx, cues, logger)
	if err != nil {
		return empty, err
	}

	s.emit(logger, Progress{State: StateAssemblingFragments})
	fragments, assemblyWarnings, err := s.assembleAll(ctx, adjusted, synthesized)
	if err != nil {
		return empty, err
	}
	warnings = append(warnings, assemblyWarnings...)

	s.emit(logger, Progress{State: StateMergingFragments})
	crossfade := float64(s.cfg.Audio.CrossfadeMs) / 1000
	track, err := audio.Merge(fragments, crossfade)
	if err != nil {
		return empty, err
	}

	s.emit(logger, Progress{State: StateNormalizing})
	track, err = s.normalizeAndMix(ctx, track, req, workspace, logger)
	if err != nil {
		return empty, err
	}

	s.emit(logger, Progress{State: StateEncoding})
	outputPath, err := s.publish(ctx, track, req, workspace)
	if err != nil {
		return empty, err
	}

	s.emit(logger, Progress{State: StateFinished})
	duration := float64(len(track)) / float64(s.cfg.Audio.SampleRate)
	logger.Info("run finished",
		logging.String("output", outputPath),
		logging.Float64("duration_seconds", duration),
		logging.Int("warnings", len(warnings)))

	return Result{OutputPath: outputPath, Duration: duration, Warnings: warnings}, nil
}

// normalizeAndMix normalizes the speech track and, when an original audio
// path is supplied, blends the (optionally vocal-removed) background under
// it at the configured ratio.
func (s *Syncer) normalizeAndMix(ctx context.Context, track []float32, req Request, workspace string, logger *slog.Logger) ([]float32, error) {
	audio.NormalizePeak(track, s.cfg.Audio.TargetLevelDB)

	if req.OriginalAudioPath == "" {
		return track, nil
	}

	backgroundPath := req.OriginalAudioPath
	if s.separator != nil && s.cfg.Separation.Enabled {
		sep, err := s.separator.Separate(ctx, req.OriginalAudioPath, filepath.Join(workspace, "stems"))
		if err != nil {
			return nil, err
		}
		backgroundPath = sep.InstrumentalPath
		logger.Info("separated background track", logging.String("instrumental", backgroundPath))
	}

	background, err := s.proc.DecodeFile(ctx, backgroundPath, s.cfg.Audio.SampleRate)
	if err != nil {
		return nil, err
	}
	audio.NormalizePeak(background, s.cfg.Audio.TargetLevelDB)

	return audio.MixTracks(track, background, s.cfg.Audio.SpeechMixRatio), nil
}

// publish writes the final artifact next to the requested output path and
// moves it into place atomically, so a failed or cancelled run never
// leaves a partial file at the published path.
func (s *Syncer) publish(ctx context.Context, track []float32, req Request, workspace string) (string, error) {
	partial := fmt.Sprintf("%s.partial-%s", req.OutputPath, uuid.NewString()[:8])
	defer func() { _ = os.Remove(partial) }()

	if req.VideoPath != "" {
		dubPath := filepath.Join(workspace, "dub.wav")
		if err := s.proc.EncodeWAV(ctx, track, s.cfg.Audio.SampleRate, dubPath); err != nil {
			return "", err
		}
		if err := s.proc.Remux(ctx, req.VideoPath, dubPath, req.SubtitlePath, partial); err != nil {
			return "", err
		}
	} else {
		if err := s.proc.EncodeWAV(ctx, track, s.cfg.Audio.SampleRate, partial); err != nil {
			return "", err
		}
	}

	if err := fileutil.MoveFileAtomic(partial, req.OutputPath); err != nil {
		return "", services.Wrap(services.ErrIO, "syncer", "publish", "move output into place", err)
	}
	return req.OutputPath, nil
}

// emit delivers a progress event to the sink. Publish calls are serialized
// so sinks never run concurrently; sink failures are logged, never
// propagated.
func (s *Syncer) emit(logger *slog.Logger, p Progress) {
	if s.sink == nil {
		return
	}
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	if err := s.sink.Publish(p); err != nil {
		logger.Warn("progress sink failed",
			logging.String(logging.FieldStage, string(p.State)),
			logging.Error(err))
	}
}
