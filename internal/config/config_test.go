// Package config_test tests the configuration loading for the tts-bot.
package config_test

import (
	"testing"
	"time"

	"github.com/book-expert/tts-bot/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tomlData := `
[nats]
url = "nats://127.0.0.1:4222"
welcome_subject = "chat.inbound.welcome"
text_subject = "chat.inbound.text"
button_subject = "chat.inbound.button"
outbound_message_subject = "chat.outbound.message"
outbound_keyboard_subject = "chat.outbound.keyboard"
outbound_payload_subject = "chat.outbound.payload"
outbound_answer_subject = "chat.outbound.answer"
audio_object_store_bucket = "AUDIO_PAYLOADS"

[tts]
cache_dir = "/tmp/tts-bot"
synthesis_timeout_seconds = 45
transcode_timeout_seconds = 20

[paths]
base_logs_dir = "/var/log/tts-bot"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "chat.inbound.welcome", cfg.NATS.WelcomeSubject)
	assert.Equal(t, "chat.inbound.text", cfg.NATS.TextSubject)
	assert.Equal(t, "chat.inbound.button", cfg.NATS.ButtonSubject)
	assert.Equal(t, "chat.outbound.message", cfg.NATS.OutboundMessageSubject)
	assert.Equal(t, "chat.outbound.keyboard", cfg.NATS.OutboundKeyboardSubject)
	assert.Equal(t, "chat.outbound.payload", cfg.NATS.OutboundPayloadSubject)
	assert.Equal(t, "chat.outbound.answer", cfg.NATS.OutboundAnswerSubject)
	assert.Equal(t, "AUDIO_PAYLOADS", cfg.NATS.AudioObjectStoreBucket)
	assert.Equal(t, "/tmp/tts-bot", cfg.TTS.CacheDir)
	assert.Equal(t, 45*time.Second, cfg.TTS.SynthesisTimeout())
	assert.Equal(t, 20*time.Second, cfg.TTS.TranscodeTimeout())
	assert.Equal(t, "/var/log/tts-bot", cfg.Paths.BaseLogsDir)
}

func TestTimeouts_DefaultWhenUnset(t *testing.T) {
	t.Parallel()

	var cfg config.Config

	assert.Equal(t, 60*time.Second, cfg.TTS.SynthesisTimeout())
	assert.Equal(t, 30*time.Second, cfg.TTS.TranscodeTimeout())
}
