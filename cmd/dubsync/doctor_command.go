package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dubsync/internal/config"
	"dubsync/internal/deps"
)

func newDoctorCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that external tools the pipeline needs are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(systemRequirements(cfg))

			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, s := range statuses {
				state := "ok"
				if !s.Available {
					if s.Optional {
						state = "missing (optional)"
					} else {
						state = "missing"
						missing++
					}
				}
				rows = append(rows, []string{s.Name, s.Command, state, s.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Command", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			if missing > 0 {
				return fmt.Errorf("%d required dependency(ies) missing", missing)
			}
			fmt.Fprintln(out, "\nAll required dependencies are available")
			return nil
		},
	}

	return cmd
}

func systemRequirements(cfg *config.Config) []deps.Requirement {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     deps.ResolveFFmpegPath(cfg.Audio.FFmpegBinary),
			Description: "Decodes, stretches, and encodes audio",
		},
	}
	requirements = append(requirements, deps.Requirement{
		Name:        "Demucs",
		Command:     deps.ResolveDemucsPath(cfg.Separation.Binary),
		Description: "Separates vocals from the original audio",
		Optional:    !cfg.Separation.Enabled,
	})
	return requirements
}
