package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"dubsync/internal/audio"
	"dubsync/internal/tts"
)

// Validate ensures the configuration is usable. It runs before any work
// starts so credential and threshold problems surface immediately.
func (c *Config) Validate() error {
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateLanguage(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTTS() error {
	kind, err := tts.ParseEngineKind(c.TTS.Engine)
	if err != nil {
		return fmt.Errorf("tts.engine: %w", err)
	}
	if kind == tts.EngineOpenAI && c.TTS.APIKey == "" {
		defaultPath, pathErr := DefaultConfigPath()
		if pathErr != nil {
			defaultPath = "~/.config/dubsync/config.toml"
		}
		return fmt.Errorf("tts.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'dubsync config init')", defaultPath)
	}
	if c.TTS.Speed < 0.25 || c.TTS.Speed > 4.0 {
		return errors.New("tts.speed must be between 0.25 and 4.0")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.MaxWordsPerSecond <= 0 {
		return errors.New("analysis.max_words_per_second must be positive")
	}
	if c.Analysis.MaxSpeedFactor <= 1 {
		return errors.New("analysis.max_speed_factor must be greater than 1")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.TargetLevelDB > 0 {
		return errors.New("audio.target_level_db must be 0 dBFS or lower")
	}
	if c.Audio.SpeechMixRatio <= 0 || c.Audio.SpeechMixRatio > 1 {
		return errors.New("audio.speech_mix_ratio must be in (0, 1]")
	}
	if c.Audio.MinTempo <= 0 || c.Audio.MaxTempo <= c.Audio.MinTempo {
		return errors.New("audio.min_tempo must be positive and less than audio.max_tempo")
	}
	if c.Audio.MinTempo < audio.TempoMin || c.Audio.MaxTempo > audio.TempoMax {
		return fmt.Errorf("audio tempo range must stay within [%.1f, %.1f]", audio.TempoMin, audio.TempoMax)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateLanguage() error {
	if c.Language.Target == "" {
		return errors.New("language.target must be set")
	}
	if _, err := language.Parse(c.Language.Target); err != nil {
		return fmt.Errorf("language.target: invalid BCP-47 tag %q: %w", c.Language.Target, err)
	}
	return nil
}

// EngineKind returns the validated engine selection.
func (c *Config) EngineKind() tts.EngineKind {
	kind, err := tts.ParseEngineKind(c.TTS.Engine)
	if err != nil {
		return tts.EngineOpenAI
	}
	return kind
}
