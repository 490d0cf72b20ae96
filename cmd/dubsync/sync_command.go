package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dubsync/internal/deps"
	"dubsync/internal/fragmentcache"
	"dubsync/internal/services/demucs"
	"dubsync/internal/services/ffmpegio"
	"dubsync/internal/services/fishspeech"
	"dubsync/internal/services/openaitts"
	"dubsync/internal/syncer"
	"dubsync/internal/tts"
)

func newSyncCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		outputPath    string
		originalAudio string
		videoPath     string
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "sync <subtitles>",
		Short: "Synthesize and synchronize a dub track for a subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.buildLogger()
			if err != nil {
				return err
			}

			ffmpeg := ffmpegio.NewService(deps.ResolveFFmpegPath(cfg.Audio.FFmpegBinary))
			engine, err := buildEngine(cmdCtx, ffmpeg)
			if err != nil {
				return err
			}

			opts := []syncer.Option{
				syncer.WithLogger(logger),
				syncer.WithProgressSink(consoleSink(cmd)),
			}

			if !noCache {
				store, err := fragmentcache.Open(cfg.CachePath())
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, syncer.WithCache(store))
			}

			if cfg.Separation.Enabled {
				opts = append(opts, syncer.WithSeparator(demucs.NewService(
					deps.ResolveDemucsPath(cfg.Separation.Binary), cfg.Separation.Model)))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := syncer.New(cfg, engine, ffmpeg, opts...)
			result, err := s.Run(ctx, syncer.Request{
				SubtitlePath:      args[0],
				OutputPath:        outputPath,
				OriginalAudioPath: originalAudio,
				VideoPath:         videoPath,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s (%.1fs)\n", result.OutputPath, result.Duration)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for the synchronized track (required)")
	cmd.Flags().StringVar(&originalAudio, "original-audio", "", "Original audio to blend under the dub")
	cmd.Flags().StringVar(&videoPath, "video", "", "Video file to remux with the synchronized audio")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the fragment cache")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// buildEngine selects the synthesis backend from the validated config.
func buildEngine(cmdCtx *commandContext, decoder *ffmpegio.Service) (tts.Engine, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}

	switch cfg.EngineKind() {
	case tts.EngineFishSpeech:
		return fishspeech.NewClient(fishspeech.Config{
			BaseURL:        cfg.TTS.BaseURL,
			TimeoutSeconds: cfg.TTS.TimeoutSeconds,
			SampleRate:     cfg.Audio.SampleRate,
		}, decoder), nil
	default:
		return openaitts.NewClient(openaitts.Config{
			APIKey:         cfg.TTS.APIKey,
			BaseURL:        cfg.TTS.BaseURL,
			Model:          cfg.TTS.Model,
			Voice:          cfg.TTS.Voice,
			TimeoutSeconds: cfg.TTS.TimeoutSeconds,
			SampleRate:     cfg.Audio.SampleRate,
		}, decoder), nil
	}
}

// consoleSink prints state transitions as the run progresses.
func consoleSink(cmd *cobra.Command) syncer.ProgressSink {
	out := cmd.OutOrStdout()
	return syncer.SinkFunc(func(p syncer.Progress) error {
		switch p.State {
		case syncer.StateSynthesizingSegments:
			if p.Total > 0 {
				fmt.Fprintf(out, "synthesizing %d/%d\n", p.Current, p.Total)
			}
		case syncer.StateError:
			fmt.Fprintf(out, "error: %s\n", p.Reason)
		default:
			fmt.Fprintf(out, "%s\n", p.State)
		}
		return nil
	})
}
