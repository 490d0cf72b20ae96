package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir       string `toml:"log_dir"`
	CacheDir     string `toml:"cache_dir"`
	WorkspaceDir string `toml:"workspace_dir"`
}

// TTS contains the speech synthesis engine settings.
type TTS struct {
	Engine                string  `toml:"engine"`
	APIKey                string  `toml:"api_key"`
	BaseURL               string  `toml:"base_url"`
	Model                 string  `toml:"model"`
	Voice                 string  `toml:"voice"`
	Speed                 float64 `toml:"speed"`
	TimeoutSeconds        int     `toml:"timeout_seconds"`
	MaxConcurrentRequests int     `toml:"max_concurrent_requests"`
	RetryLimit            int     `toml:"retry_limit"`
}

// Analysis contains the speech-rate thresholds.
type Analysis struct {
	MaxWordsPerSecond float64 `toml:"max_words_per_second"`
	MaxSpeedFactor    float64 `toml:"max_speed_factor"`
}

// Audio contains fragment shaping and mixing settings.
type Audio struct {
	SampleRate      int     `toml:"sample_rate"`
	FadeInMs        int     `toml:"fade_in_ms"`
	FadeOutMs       int     `toml:"fade_out_ms"`
	CrossfadeMs     int     `toml:"crossfade_ms"`
	TargetLevelDB   float64 `toml:"target_level_db"`
	MinTempo        float64 `toml:"min_tempo"`
	MaxTempo        float64 `toml:"max_tempo"`
	SpeechMixRatio  float64 `toml:"speech_mix_ratio"`
	FFmpegBinary    string  `toml:"ffmpeg_binary"`
}

// Separation contains source-separation settings for background blending.
type Separation struct {
	Enabled bool   `toml:"enabled"`
	Binary  string `toml:"binary"`
	Model   string `toml:"model"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Output contains run output behavior.
type Output struct {
	// KeepWorkspace persists the run's temporary files for debugging
	// instead of removing them when the run ends.
	KeepWorkspace bool `toml:"keep_workspace"`
}

// Language contains translation target settings.
type Language struct {
	// Target is a BCP-47 language tag (e.g. "de", "pt-BR").
	Target string `toml:"target"`
}

// Config encapsulates all configuration values for dubsync.
type Config struct {
	Paths      Paths      `toml:"paths"`
	TTS        TTS        `toml:"tts"`
	Analysis   Analysis   `toml:"analysis"`
	Audio      Audio      `toml:"audio"`
	Separation Separation `toml:"separation"`
	Logging    Logging    `toml:"logging"`
	Output     Output     `toml:"output"`
	Language   Language   `toml:"language"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dubsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	// A .env file in the working directory may carry the API key.
	_ = godotenv.Load()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dubsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.CacheDir, c.Paths.WorkspaceDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CachePath returns the fragment cache database location.
func (c *Config) CachePath() string {
	return filepath.Join(c.Paths.CacheDir, "fragments.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
