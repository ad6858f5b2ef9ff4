package bot_test

import (
	"testing"

	"github.com/book-expert/tts-bot/internal/bot"
	"github.com/book-expert/tts-bot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyboard_Layout(t *testing.T) {
	t.Parallel()

	keyboard := bot.Keyboard(session.DefaultPreferences())

	require.Len(t, keyboard.Rows, 4)
	assert.Len(t, keyboard.Rows[0], 2, "language row")
	assert.Len(t, keyboard.Rows[1], 3, "speed row")
	assert.Len(t, keyboard.Rows[2], 2, "output format row")
	require.Len(t, keyboard.Rows[3], 1, "generate row")
	assert.Equal(t, "generate", keyboard.Rows[3][0].Category)
}

func TestKeyboard_SelectionMatchesPreferences(t *testing.T) {
	t.Parallel()

	prefs := session.Preferences{
		Language:     session.LanguageEnglish,
		Speed:        session.SpeedSlow,
		OutputFormat: session.FormatAudio,
	}

	keyboard := bot.Keyboard(prefs)

	selected := make(map[string]string)

	for _, row := range keyboard.Rows {
		for _, button := range row {
			if button.Selected {
				selected[button.Category] = button.Value
			}
		}
	}

	assert.Equal(t, "en", selected["language"])
	assert.Equal(t, "slow", selected["speed"])
	assert.Equal(t, "audio", selected["outputFormat"])
	assert.NotContains(t, selected, "generate")
}

func TestKeyboard_RenderIsIdempotent(t *testing.T) {
	t.Parallel()

	prefs := session.DefaultPreferences()

	first := bot.Keyboard(prefs)
	second := bot.Keyboard(prefs)

	assert.Equal(t, first, second)
}
