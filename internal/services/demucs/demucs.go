// Package demucs runs the demucs source-separation tool to split a track
// into vocal and instrumental stems.
package demucs

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"dubsync/internal/services"
)

// Command is the default demucs binary name resolved via PATH.
const Command = "demucs"

// defaultModel is the demucs model whose output directory layout we read.
const defaultModel = "htdemucs"

// Separation holds the paths of the two stems demucs produced.
type Separation struct {
	VocalsPath       string
	InstrumentalPath string
}

// Service wraps a demucs binary.
type Service struct {
	binary        string
	model         string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a demucs service. Empty arguments fall back to the
// PATH lookup of "demucs" and the htdemucs model.
func NewService(binary, model string) *Service {
	if binary == "" {
		binary = Command
	}
	if model == "" {
		model = defaultModel
	}
	return &Service{binary: binary, model: model}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

func (s *Service) run(ctx context.Context, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, s.binary, args...)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Separate splits source into vocals and instrumental stems under outDir
// and returns the stem paths.
func (s *Service) Separate(ctx context.Context, source, outDir string) (Separation, error) {
	var empty Separation
	if source == "" {
		return empty, services.Wrap(services.ErrAudioProcessing, "demucs", "separate", "source path required", nil)
	}

	args := []string{
		"--two-stems", "vocals",
		"-n", s.model,
		"-o", outDir,
		source,
	}
	if err := s.run(ctx, args...); err != nil {
		return empty, services.Wrap(services.ErrAudioProcessing, "demucs", "separate",
			fmt.Sprintf("separate %s", source), err)
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	stemDir := filepath.Join(outDir, s.model, base)
	return Separation{
		VocalsPath:       filepath.Join(stemDir, "vocals.wav"),
		InstrumentalPath: filepath.Join(stemDir, "no_vocals.wav"),
	}, nil
}
