package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateTranslate(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/subforge/config.toml"
		}
		return fmt.Errorf("speech.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'subforge config init')", defaultPath)
	}
	if c.Speech.TimeoutSeconds <= 0 {
		return errors.New("speech.timeout_seconds must be positive")
	}
	if c.Speech.SegmentSeconds <= 0 {
		return errors.New("speech.segment_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTranslate() error {
	if strings.TrimSpace(c.Translate.BaseURL) == "" {
		return errors.New("translate.base_url must be set")
	}
	if strings.TrimSpace(c.Translate.Model) == "" {
		return errors.New("translate.model must be set")
	}
	if c.Translate.TimeoutSeconds <= 0 {
		return errors.New("translate.timeout_seconds must be positive")
	}
	if c.Translate.MaxAttempts <= 0 {
		return errors.New("translate.max_attempts must be positive")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if strings.TrimSpace(c.FFmpeg.Binary) == "" {
		return errors.New("ffmpeg.binary must be set")
	}
	if strings.TrimSpace(c.FFmpeg.ProbeBinary) == "" {
		return errors.New("ffmpeg.probe_binary must be set")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.TrimSpace(c.Output.Format) == "" {
		return errors.New("output.format must be set")
	}
	if c.Output.CRF < 0 || c.Output.CRF > 51 {
		return errors.New("output.crf must be between 0 and 51")
	}
	if strings.TrimSpace(c.Output.AudioBitrate) == "" {
		return errors.New("output.audio_bitrate must be set")
	}
	return nil
}
