// Package core defines the interfaces and shared types that connect the bot
// to its external collaborators: the speech engine, the transcoder, and the
// messaging transport.
package core

import "context"

// SpeechRequest describes a single synthesis job. The engine only
// distinguishes slow speech from regular speech; any finer speed preference
// is resolved by the caller before building the request.
type SpeechRequest struct {
	Text     string
	Language string
	Slow     bool
}

// SpeechEngine converts text into compressed audio bytes (an MP3 stream).
type SpeechEngine interface {
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// Transcoder converts synthesized MP3 audio into a voice-message-compatible
// codec. Availability is probed once at startup; Transcode must only be
// called when Available reports true.
type Transcoder interface {
	Available() bool
	Transcode(ctx context.Context, mp3Data []byte) ([]byte, error)
}

// ObjectStore defines the interface for interacting with a key-value blob
// store holding outbound audio payloads.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// Button is one choice in the options keyboard. Selected marks the value
// currently stored in the user's preferences.
type Button struct {
	Label    string `json:"label"`
	Category string `json:"category"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Keyboard is the render model for the option picker: one row per
// preference category plus a trailing action row.
type Keyboard struct {
	Rows [][]Button `json:"rows"`
}

// Messenger executes outbound actions on the chat transport. The bot never
// manages connections or retries; it only hands payloads to this interface.
type Messenger interface {
	SendMessage(ctx context.Context, chatID, text string, keyboard *Keyboard) error
	EditKeyboard(ctx context.Context, chatID, messageID string, keyboard Keyboard) error
	SendVoice(ctx context.Context, chatID string, audio []byte, caption string) error
	SendAudio(ctx context.Context, chatID string, audio []byte, fileName, caption string) error
	AnswerEvent(ctx context.Context, eventID, text string) error
}

// WelcomeEvent is delivered when a user greets the bot for the first time
// or asks for help.
type WelcomeEvent struct {
	UserID string
	ChatID string
}

// TextEvent carries a text message submitted for synthesis.
type TextEvent struct {
	UserID string
	ChatID string
	Text   string
}

// ButtonEvent carries a button press from the options keyboard. EventID
// identifies the press itself for transient acknowledgements.
type ButtonEvent struct {
	UserID    string
	ChatID    string
	MessageID string
	EventID   string
	Category  string
	Value     string
}
