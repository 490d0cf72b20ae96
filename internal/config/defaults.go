package config

const (
	defaultLogDir       = "~/.local/share/dubsync/logs"
	defaultCacheDir     = "~/.cache/dubsync"
	defaultWorkspaceDir = "~/.local/share/dubsync/workspace"

	defaultEngine                = "openai"
	defaultTTSBaseURL            = "https://api.openai.com/v1/audio/speech"
	defaultTTSModel              = "tts-1"
	defaultTTSVoice              = "alloy"
	defaultTTSSpeed              = 1.0
	defaultTTSTimeoutSeconds     = 60
	defaultMaxConcurrentRequests = 5
	defaultRetryLimit            = 3

	defaultMaxWordsPerSecond = 2.5
	defaultMaxSpeedFactor    = 1.8

	defaultSampleRate     = 44100
	defaultFadeInMs       = 20
	defaultFadeOutMs      = 20
	defaultCrossfadeMs    = 0
	defaultTargetLevelDB  = -14.0
	defaultMinTempo       = 0.5
	defaultMaxTempo       = 2.0
	defaultSpeechMixRatio = 0.7
	defaultFFmpegBinary   = "ffmpeg"

	defaultDemucsBinary = "demucs"
	defaultDemucsModel  = "htdemucs"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultTargetLanguage = "en"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:       defaultLogDir,
			CacheDir:     defaultCacheDir,
			WorkspaceDir: defaultWorkspaceDir,
		},
		TTS: TTS{
			Engine:                defaultEngine,
			BaseURL:               defaultTTSBaseURL,
			Model:                 defaultTTSModel,
			Voice:                 defaultTTSVoice,
			Speed:                 defaultTTSSpeed,
			TimeoutSeconds:        defaultTTSTimeoutSeconds,
			MaxConcurrentRequests: defaultMaxConcurrentRequests,
			RetryLimit:            defaultRetryLimit,
		},
		Analysis: Analysis{
			MaxWordsPerSecond: defaultMaxWordsPerSecond,
			MaxSpeedFactor:    defaultMaxSpeedFactor,
		},
		Audio: Audio{
			SampleRate:     defaultSampleRate,
			FadeInMs:       defaultFadeInMs,
			FadeOutMs:      defaultFadeOutMs,
			CrossfadeMs:    defaultCrossfadeMs,
			TargetLevelDB:  defaultTargetLevelDB,
			MinTempo:       defaultMinTempo,
			MaxTempo:       defaultMaxTempo,
			SpeechMixRatio: defaultSpeechMixRatio,
			FFmpegBinary:   defaultFFmpegBinary,
		},
		Separation: Separation{
			Enabled: false,
			Binary:  defaultDemucsBinary,
			Model:   defaultDemucsModel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Language: Language{
			Target: defaultTargetLanguage,
		},
	}
}
