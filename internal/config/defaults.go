package config

const (
	defaultWorkDir              = "~/.local/share/subforge/work"
	defaultDataDir              = "~/.local/share/subforge"
	defaultLogDir               = "~/.local/share/subforge/logs"
	defaultSpeechBaseURL        = "https://api.openai.com/v1/audio/transcriptions"
	defaultSpeechModel          = "whisper-1"
	defaultSpeechTimeoutSeconds = 60
	defaultSegmentSeconds       = 240
	defaultTranslateBaseURL     = "https://api.openai.com/v1/chat/completions"
	defaultTranslateModel       = "gpt-4o-mini"
	defaultTranslateTimeout     = 30
	defaultTranslateMaxAttempts = 3
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultOutputFormat         = "mp4"
	defaultOutputVideoCodec     = "libx264"
	defaultOutputPreset         = "veryfast"
	defaultOutputCRF            = 18
	defaultOutputAudioCodec     = "aac"
	defaultOutputAudioBitrate   = "192k"
	defaultAccountID            = "default"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Speech: Speech{
			BaseURL:        defaultSpeechBaseURL,
			Model:          defaultSpeechModel,
			TimeoutSeconds: defaultSpeechTimeoutSeconds,
			SegmentSeconds: defaultSegmentSeconds,
		},
		Translate: Translate{
			BaseURL:        defaultTranslateBaseURL,
			Model:          defaultTranslateModel,
			TimeoutSeconds: defaultTranslateTimeout,
			MaxAttempts:    defaultTranslateMaxAttempts,
		},
		FFmpeg: FFmpeg{
			Binary:      defaultFFmpegBinary,
			ProbeBinary: defaultFFprobeBinary,
		},
		Output: Output{
			Format:       defaultOutputFormat,
			VideoCodec:   defaultOutputVideoCodec,
			Preset:       defaultOutputPreset,
			CRF:          defaultOutputCRF,
			AudioCodec:   defaultOutputAudioCodec,
			AudioBitrate: defaultOutputAudioBitrate,
		},
		Account: Account{
			ID: defaultAccountID,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
