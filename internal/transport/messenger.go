package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-bot/internal/config"
	"github.com/book-expert/tts-bot/internal/core"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// NatsMessenger implements core.Messenger by publishing outbound chat
// actions as JSON events. Audio bytes are uploaded to the object store and
// referenced by key so large blobs stay out of core messages.
type NatsMessenger struct {
	natsConnection *nats.Conn
	store          core.ObjectStore
	cfg            config.NATSConfig
	log            *logger.Logger
}

// NewMessenger creates a NATS-backed messenger.
func NewMessenger(
	natsConnection *nats.Conn,
	store core.ObjectStore,
	cfg config.NATSConfig,
	log *logger.Logger,
) *NatsMessenger {
	return &NatsMessenger{
		natsConnection: natsConnection,
		store:          store,
		cfg:            cfg,
		log:            log,
	}
}

// SendMessage publishes a chat message event.
func (m *NatsMessenger) SendMessage(
	_ context.Context,
	chatID, text string,
	keyboard *core.Keyboard,
) error {
	event := OutboundMessage{
		Header:   newHeader(),
		ChatID:   chatID,
		Text:     text,
		Keyboard: keyboard,
	}

	return m.publish(m.cfg.OutboundMessageSubject, event)
}

// EditKeyboard publishes a keyboard redraw event.
func (m *NatsMessenger) EditKeyboard(
	_ context.Context,
	chatID, messageID string,
	keyboard core.Keyboard,
) error {
	event := KeyboardUpdate{
		Header:    newHeader(),
		ChatID:    chatID,
		MessageID: messageID,
		Keyboard:  keyboard,
	}

	return m.publish(m.cfg.OutboundKeyboardSubject, event)
}

// SendVoice uploads the transcoded audio and publishes a voice payload
// event.
func (m *NatsMessenger) SendVoice(
	ctx context.Context,
	chatID string,
	audio []byte,
	caption string,
) error {
	return m.sendPayload(ctx, chatID, audio, "voice", "", caption, ".ogg")
}

// SendAudio uploads the original synthesized audio and publishes an audio
// payload event with its filename hint.
func (m *NatsMessenger) SendAudio(
	ctx context.Context,
	chatID string,
	audio []byte,
	fileName, caption string,
) error {
	return m.sendPayload(ctx, chatID, audio, "audio", fileName, caption, ".mp3")
}

// AnswerEvent publishes a transient acknowledgement for a button press.
func (m *NatsMessenger) AnswerEvent(_ context.Context, eventID, text string) error {
	event := EventAnswer{
		Header:  newHeader(),
		EventID: eventID,
		Text:    text,
	}

	return m.publish(m.cfg.OutboundAnswerSubject, event)
}

func (m *NatsMessenger) sendPayload(
	ctx context.Context,
	chatID string,
	audio []byte,
	format, fileName, caption, extension string,
) error {
	audioKey := uuid.NewString() + extension

	uploadErr := m.store.Upload(ctx, audioKey, audio)
	if uploadErr != nil {
		return fmt.Errorf("failed to upload %s payload '%s': %w", format, audioKey, uploadErr)
	}

	m.log.Info("Uploaded %s payload '%s' (%d bytes)", format, audioKey, len(audio))

	event := AudioPayloadEvent{
		Header:   newHeader(),
		ChatID:   chatID,
		AudioKey: audioKey,
		Format:   format,
		FileName: fileName,
		Caption:  caption,
	}

	return m.publish(m.cfg.OutboundPayloadSubject, event)
}

func (m *NatsMessenger) publish(subject string, event any) error {
	data, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		return fmt.Errorf("failed to marshal event for subject %s: %w", subject, marshalErr)
	}

	publishErr := m.natsConnection.Publish(subject, data)
	if publishErr != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, publishErr)
	}

	return nil
}
