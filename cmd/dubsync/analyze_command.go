package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubsync/internal/subtitles"
	"dubsync/internal/timing"
)

func newAnalyzeCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <subtitles>",
		Short: "Report per-cue speech-rate pressure without synthesizing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			cues, err := subtitles.Parse(args[0])
			if err != nil {
				return err
			}

			analysisCfg := timing.AnalysisConfig{
				MaxWordsPerSecond: cfg.Analysis.MaxWordsPerSecond,
				MaxSpeedFactor:    cfg.Analysis.MaxSpeedFactor,
			}
			analysis := timing.Analyze(cues, analysisCfg)

			rows := make([][]string, 0, len(analysis))
			flagged := 0
			for _, a := range analysis {
				if a.Severity > 0 {
					flagged++
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", a.Index),
					fmt.Sprintf("%d", a.WordCount),
					fmt.Sprintf("%.2fs", a.Duration),
					fmt.Sprintf("%.2f", a.WordsPerSecond),
					fmt.Sprintf("%.2fx", a.RequiredSpeedFactor),
					fmt.Sprintf("%.1f", a.Severity),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Cue", "Words", "Duration", "WPS", "Factor", "Severity"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))

			metrics := subtitles.Metrics(cues)
			fmt.Fprintf(out, "\n%d cues, %d flagged; avg duration %.2fs, avg gap %.2fs\n",
				len(cues), flagged, metrics.AvgDuration, metrics.AvgGap)
			return nil
		},
	}

	return cmd
}
