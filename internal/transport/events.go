package transport

import (
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/tts-bot/internal/core"
	"github.com/google/uuid"
)

// InboundEvent is the JSON envelope for chat events arriving over NATS.
// User, chat, and message identifiers are opaque strings owned by the chat
// gateway that publishes them.
type InboundEvent struct {
	Header    events.EventHeader `json:"header"`
	UserID    string             `json:"user_id"`
	ChatID    string             `json:"chat_id"`
	MessageID string             `json:"message_id,omitempty"`
	Text      string             `json:"text,omitempty"`
	Category  string             `json:"category,omitempty"`
	Value     string             `json:"value,omitempty"`
}

// OutboundMessage asks the gateway to send a chat message, optionally with
// the options keyboard attached.
type OutboundMessage struct {
	Header   events.EventHeader `json:"header"`
	ChatID   string             `json:"chat_id"`
	Text     string             `json:"text"`
	Keyboard *core.Keyboard     `json:"keyboard,omitempty"`
}

// KeyboardUpdate asks the gateway to redraw the options keyboard on an
// existing message.
type KeyboardUpdate struct {
	Header    events.EventHeader `json:"header"`
	ChatID    string             `json:"chat_id"`
	MessageID string             `json:"message_id"`
	Keyboard  core.Keyboard      `json:"keyboard"`
}

// AudioPayloadEvent announces a generated payload. The audio bytes are in
// the object store under AudioKey; Format is "voice" or "audio".
type AudioPayloadEvent struct {
	Header   events.EventHeader `json:"header"`
	ChatID   string             `json:"chat_id"`
	AudioKey string             `json:"audio_key"`
	Format   string             `json:"format"`
	FileName string             `json:"file_name,omitempty"`
	Caption  string             `json:"caption"`
}

// EventAnswer asks the gateway to show a transient acknowledgement to the
// user who pressed a button.
type EventAnswer struct {
	Header  events.EventHeader `json:"header"`
	EventID string             `json:"event_id"`
	Text    string             `json:"text"`
}

// newHeader builds the envelope header for an outbound event.
func newHeader() events.EventHeader {
	return events.EventHeader{
		Timestamp:  time.Now(),
		WorkflowID: uuid.NewString(),
		EventID:    uuid.NewString(),
		UserID:     "",
		TenantID:   "",
	}
}
