package bot

import (
	"github.com/book-expert/tts-bot/internal/core"
	"github.com/book-expert/tts-bot/internal/session"
)

// Button labels shown on the options keyboard.
const (
	labelGenerate = "Generate"
)

var languageLabels = map[session.Language]string{
	session.LanguageHindi:   "Hindi",
	session.LanguageEnglish: "English",
}

var speedLabels = map[session.Speed]string{
	session.SpeedNormal: "Normal",
	session.SpeedSlow:   "Slow",
	session.SpeedFast:   "Fast",
}

var formatLabels = map[session.OutputFormat]string{
	session.FormatVoice: "Voice",
	session.FormatAudio: "Audio",
}

// Keyboard renders the option picker for the given preferences: one row per
// preference category plus the Generate action. Rendering is pure; the same
// preferences always yield the same model.
func Keyboard(prefs session.Preferences) core.Keyboard {
	languageRow := make([]core.Button, 0, len(session.Languages()))
	for _, lang := range session.Languages() {
		languageRow = append(languageRow, core.Button{
			Label:    languageLabels[lang],
			Category: string(session.CategoryLanguage),
			Value:    string(lang),
			Selected: prefs.Language == lang,
		})
	}

	speedRow := make([]core.Button, 0, len(session.Speeds()))
	for _, speed := range session.Speeds() {
		speedRow = append(speedRow, core.Button{
			Label:    speedLabels[speed],
			Category: string(session.CategorySpeed),
			Value:    string(speed),
			Selected: prefs.Speed == speed,
		})
	}

	formatRow := make([]core.Button, 0, len(session.OutputFormats()))
	for _, format := range session.OutputFormats() {
		formatRow = append(formatRow, core.Button{
			Label:    formatLabels[format],
			Category: string(session.CategoryOutputFormat),
			Value:    string(format),
			Selected: prefs.OutputFormat == format,
		})
	}

	generateRow := []core.Button{
		{
			Label:    labelGenerate,
			Category: string(session.CategoryGenerate),
			Value:    "",
			Selected: false,
		},
	}

	return core.Keyboard{
		Rows: [][]core.Button{languageRow, speedRow, formatRow, generateRow},
	}
}
