// Package ffmpegio shells out to ffmpeg for the audio work Go should not
// reimplement: decoding compressed payloads to mono f32 PCM,
// pitch-preserving tempo adjustment, WAV encoding, and container remuxing.
package ffmpegio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"dubsync/internal/audio"
	"dubsync/internal/services"
)

// Command is the default ffmpeg binary name resolved via PATH.
const Command = "ffmpeg"

// Runner executes an external command with the given stdin payload and
// returns its stdout. Injected in tests.
type Runner func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

// Service wraps an ffmpeg binary.
type Service struct {
	binary string
	runner Runner
}

// NewService creates an ffmpeg service. An empty binary falls back to the
// PATH lookup of "ffmpeg".
func NewService(binary string) *Service {
	if binary == "" {
		binary = Command
	}
	return &Service{binary: binary}
}

// WithRunner sets a custom command runner (for testing).
func (s *Service) WithRunner(runner Runner) {
	s.runner = runner
}

func (s *Service) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	if s.runner != nil {
		return s.runner(ctx, stdin, s.binary, args...)
	}

	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// DecodeFile decodes any ffmpeg-readable audio file to mono f32 PCM at the
// requested sample rate.
func (s *Service) DecodeFile(ctx context.Context, path string, sampleRate int) ([]float32, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "f32le", "-acodec", "pcm_f32le",
		"-ac", "1", "-ar", strconv.Itoa(sampleRate),
		"pipe:1",
	}
	out, err := s.run(ctx, nil, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrAudioProcessing, "ffmpeg", "decode",
			fmt.Sprintf("decode %s", path), err)
	}
	return bytesToSamples(out), nil
}

// DecodeBytes decodes an in-memory compressed payload (e.g. an MP3 or WAV
// response body) to mono f32 PCM. format names the input container for
// ffmpeg ("mp3", "wav", ...).
func (s *Service) DecodeBytes(ctx context.Context, data []byte, format string, sampleRate int) ([]float32, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", format, "-i", "pipe:0",
		"-f", "f32le", "-acodec", "pcm_f32le",
		"-ac", "1", "-ar", strconv.Itoa(sampleRate),
		"pipe:1",
	}
	out, err := s.run(ctx, data, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrAudioProcessing, "ffmpeg", "decode",
			fmt.Sprintf("decode %s payload", format), err)
	}
	return bytesToSamples(out), nil
}

// Stretch applies a pitch-preserving tempo change to the buffer. The
// factor must already lie in the supported atempo range.
func (s *Service) Stretch(ctx context.Context, samples []float32, sampleRate int, factor float64) ([]float32, error) {
	if factor < audio.TempoMin || factor > audio.TempoMax {
		return nil, services.Wrap(services.ErrAudioProcessing, "ffmpeg", "stretch",
			fmt.Sprintf("tempo factor %.3f outside [%.1f, %.1f]", factor, audio.TempoMin, audio.TempoMax), nil)
	}
	if factor == 1.0 {
		return samples, nil
	}

	rate := strconv.Itoa(sampleRate)
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "f32le", "-ar", rate, "-ac", "1", "-i", "pipe:0",
		"-filter:a", fmt.Sprintf("atempo=%.6f", factor),
		"-f", "f32le", "-acodec", "pcm_f32le", "-ar", rate, "-ac", "1",
		"pipe:1",
	}
	out, err := s.run(ctx, samplesToBytes(samples), args...)
	if err != nil {
		return nil, services.Wrap(services.ErrAudioProcessing, "ffmpeg", "stretch",
			fmt.Sprintf("atempo %.3f", factor), err)
	}
	return bytesToSamples(out), nil
}

// EncodeWAV writes mono f32 PCM to dest as a 16-bit WAV file.
func (s *Service) EncodeWAV(ctx context.Context, samples []float32, sampleRate int, dest string) error {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "f32le", "-ar", strconv.Itoa(sampleRate), "-ac", "1", "-i", "pipe:0",
		"-acodec", "pcm_s16le",
		"-y", dest,
	}
	if _, err := s.run(ctx, samplesToBytes(samples), args...); err != nil {
		return services.Wrap(services.ErrIO, "ffmpeg", "encode",
			fmt.Sprintf("encode %s", dest), err)
	}
	return nil
}

// Remux combines an existing video stream with the synchronized audio
// track into one container at dest. The video stream is copied, never
// re-encoded. A non-empty subtitlePath is muxed in as a subtitle stream.
func (s *Service) Remux(ctx context.Context, videoPath, audioPath, subtitlePath, dest string) error {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-i", audioPath,
	}
	if subtitlePath != "" {
		args = append(args, "-i", subtitlePath)
	}
	args = append(args, "-map", "0:v", "-map", "1:a")
	if subtitlePath != "" {
		args = append(args, "-map", "2:s", "-c:s", "mov_text")
	}
	args = append(args,
		"-c:v", "copy",
		"-c:a", "aac",
		"-y", dest,
	)
	if _, err := s.run(ctx, nil, args...); err != nil {
		return services.Wrap(services.ErrIO, "ffmpeg", "remux",
			fmt.Sprintf("remux %s", dest), err)
	}
	return nil
}
