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
	c.normalizeSpeech()
	c.normalizeTranslate()
	c.normalizeFFmpeg()
	c.normalizeOutput()
	c.normalizeAccount()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSpeech() {
	c.Speech.APIKey = strings.TrimSpace(c.Speech.APIKey)
	if c.Speech.APIKey == "" {
		if value, ok := os.LookupEnv("SUBFORGE_SPEECH_API_KEY"); ok {
			c.Speech.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Speech.APIKey = strings.TrimSpace(value)
		}
	}
	c.Speech.BaseURL = strings.TrimSpace(c.Speech.BaseURL)
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
	c.Speech.Model = strings.TrimSpace(c.Speech.Model)
	if c.Speech.Model == "" {
		c.Speech.Model = defaultSpeechModel
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeoutSeconds
	}
	if c.Speech.SegmentSeconds <= 0 {
		c.Speech.SegmentSeconds = defaultSegmentSeconds
	}
}

func (c *Config) normalizeTranslate() {
	c.Translate.APIKey = strings.TrimSpace(c.Translate.APIKey)
	if c.Translate.APIKey == "" {
		if value, ok := os.LookupEnv("SUBFORGE_TRANSLATE_API_KEY"); ok {
			c.Translate.APIKey = strings.TrimSpace(value)
		}
	}
	// Fall back to the speech key so a single OpenAI key covers both services.
	if c.Translate.APIKey == "" {
		c.Translate.APIKey = c.Speech.APIKey
	}
	c.Translate.BaseURL = strings.TrimSpace(c.Translate.BaseURL)
	if c.Translate.BaseURL == "" {
		c.Translate.BaseURL = defaultTranslateBaseURL
	}
	c.Translate.Model = strings.TrimSpace(c.Translate.Model)
	if c.Translate.Model == "" {
		c.Translate.Model = defaultTranslateModel
	}
	if c.Translate.TimeoutSeconds <= 0 {
		c.Translate.TimeoutSeconds = defaultTranslateTimeout
	}
	if c.Translate.MaxAttempts <= 0 {
		c.Translate.MaxAttempts = defaultTranslateMaxAttempts
	}
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.ProbeBinary = strings.TrimSpace(c.FFmpeg.ProbeBinary)
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	c.Output.VideoCodec = strings.TrimSpace(c.Output.VideoCodec)
	if c.Output.VideoCodec == "" {
		c.Output.VideoCodec = defaultOutputVideoCodec
	}
	c.Output.Preset = strings.TrimSpace(c.Output.Preset)
	if c.Output.Preset == "" {
		c.Output.Preset = defaultOutputPreset
	}
	if c.Output.CRF <= 0 {
		c.Output.CRF = defaultOutputCRF
	}
	c.Output.AudioCodec = strings.TrimSpace(c.Output.AudioCodec)
	if c.Output.AudioCodec == "" {
		c.Output.AudioCodec = defaultOutputAudioCodec
	}
	c.Output.AudioBitrate = strings.TrimSpace(c.Output.AudioBitrate)
	if c.Output.AudioBitrate == "" {
		c.Output.AudioBitrate = defaultOutputAudioBitrate
	}
}

func (c *Config) normalizeAccount() {
	c.Account.ID = strings.TrimSpace(c.Account.ID)
	if c.Account.ID == "" {
		c.Account.ID = defaultAccountID
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
