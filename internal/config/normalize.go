package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeAudio()
	c.normalizeSeparation()
	c.normalizeLogging()
	c.Language.Target = strings.TrimSpace(c.Language.Target)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTS() {
	c.TTS.Engine = strings.ToLower(strings.TrimSpace(c.TTS.Engine))
	if c.TTS.Engine == "" {
		c.TTS.Engine = defaultEngine
	}
	if c.TTS.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.TTS.APIKey = strings.TrimSpace(value)
		}
	}
	c.TTS.BaseURL = strings.TrimSpace(c.TTS.BaseURL)
	// The shipped default base URL only applies to the hosted engine; a
	// local engine supplies its own.
	if c.TTS.Engine != defaultEngine && c.TTS.BaseURL == defaultTTSBaseURL {
		c.TTS.BaseURL = ""
	}
	c.TTS.Model = strings.TrimSpace(c.TTS.Model)
	c.TTS.Voice = strings.TrimSpace(c.TTS.Voice)
	if c.TTS.Speed <= 0 {
		c.TTS.Speed = defaultTTSSpeed
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
	if c.TTS.MaxConcurrentRequests <= 0 {
		c.TTS.MaxConcurrentRequests = defaultMaxConcurrentRequests
	}
	if c.TTS.RetryLimit < 0 {
		c.TTS.RetryLimit = defaultRetryLimit
	}
}

func (c *Config) normalizeAudio() {
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaultSampleRate
	}
	if c.Audio.FadeInMs < 0 {
		c.Audio.FadeInMs = defaultFadeInMs
	}
	if c.Audio.FadeOutMs < 0 {
		c.Audio.FadeOutMs = defaultFadeOutMs
	}
	if c.Audio.CrossfadeMs < 0 {
		c.Audio.CrossfadeMs = defaultCrossfadeMs
	}
	if c.Audio.TargetLevelDB == 0 {
		c.Audio.TargetLevelDB = defaultTargetLevelDB
	}
	if c.Audio.SpeechMixRatio <= 0 {
		c.Audio.SpeechMixRatio = defaultSpeechMixRatio
	}
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeSeparation() {
	c.Separation.Binary = strings.TrimSpace(c.Separation.Binary)
	if c.Separation.Binary == "" {
		c.Separation.Binary = defaultDemucsBinary
	}
	c.Separation.Model = strings.TrimSpace(c.Separation.Model)
	if c.Separation.Model == "" {
		c.Separation.Model = defaultDemucsModel
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
