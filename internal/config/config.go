// Package config provides the configuration structure for the tts-bot.
package config

import (
	"fmt"
	"time"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Fallbacks applied when a timeout is not configured.
const (
	defaultSynthesisTimeoutSeconds = 60
	defaultTranscodeTimeoutSeconds = 30
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                     string `toml:"url"`
	WelcomeSubject          string `toml:"welcome_subject"`
	TextSubject             string `toml:"text_subject"`
	ButtonSubject           string `toml:"button_subject"`
	OutboundMessageSubject  string `toml:"outbound_message_subject"`
	OutboundKeyboardSubject string `toml:"outbound_keyboard_subject"`
	OutboundPayloadSubject  string `toml:"outbound_payload_subject"`
	OutboundAnswerSubject   string `toml:"outbound_answer_subject"`
	AudioObjectStoreBucket  string `toml:"audio_object_store_bucket"`
}

// TTSConfig holds the configuration for synthesis and transcoding.
type TTSConfig struct {
	CacheDir                string `toml:"cache_dir"`
	SynthesisTimeoutSeconds int    `toml:"synthesis_timeout_seconds"`
	TranscodeTimeoutSeconds int    `toml:"transcode_timeout_seconds"`
}

// SynthesisTimeout returns the bound for one speech engine call.
func (t TTSConfig) SynthesisTimeout() time.Duration {
	seconds := t.SynthesisTimeoutSeconds
	if seconds <= 0 {
		seconds = defaultSynthesisTimeoutSeconds
	}

	return time.Duration(seconds) * time.Second
}

// TranscodeTimeout returns the bound for one transcoder call.
func (t TTSConfig) TranscodeTimeout() time.Duration {
	seconds := t.TranscodeTimeoutSeconds
	if seconds <= 0 {
		seconds = defaultTranscodeTimeoutSeconds
	}

	return time.Duration(seconds) * time.Second
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS  NATSConfig  `toml:"nats"`
	TTS   TTSConfig   `toml:"tts"`
	Paths PathsConfig `toml:"paths"`
}

// Load loads the configuration for the tts-bot.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}
