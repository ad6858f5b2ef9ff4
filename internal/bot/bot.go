// Package bot implements the preference state machine: it interprets
// inbound chat events, mutates session state through the store, and
// triggers the synthesis pipeline on a Generate press.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-bot/internal/core"
	"github.com/book-expert/tts-bot/internal/pipeline"
	"github.com/book-expert/tts-bot/internal/session"
)

// User-facing texts.
const (
	welcomeText = "Welcome to the TTS bot!\n\n" +
		"Send me any text and I will convert it into speech.\n" +
		"Choose language, speed, and output type using the buttons below."
	textSavedText       = "Text saved. Press Generate to convert it to speech."
	ackGenerating       = "Generating audio..."
	ackNoText           = "No text found. Send text first."
	ackUnknownOption    = "Unknown option."
	generationErrNotice = "Error generating audio. Please try again."
)

// Bot wires the session store, the pipeline, and the outbound messenger.
// Its handlers are safe for concurrent invocation across users.
type Bot struct {
	store     *session.Store
	pipeline  *pipeline.Pipeline
	messenger core.Messenger
	log       *logger.Logger
}

// New creates a bot.
func New(
	store *session.Store,
	pipe *pipeline.Pipeline,
	messenger core.Messenger,
	log *logger.Logger,
) *Bot {
	return &Bot{
		store:     store,
		pipeline:  pipe,
		messenger: messenger,
		log:       log,
	}
}

// HandleWelcome resets the user's preferences to defaults and sends the
// welcome message with the options keyboard. Previously saved text is kept.
func (b *Bot) HandleWelcome(ctx context.Context, event core.WelcomeEvent) error {
	prefs := b.store.ResetDefaults(event.UserID)
	keyboard := Keyboard(prefs)

	sendErr := b.messenger.SendMessage(ctx, event.ChatID, welcomeText, &keyboard)
	if sendErr != nil {
		return fmt.Errorf("failed to send welcome message: %w", sendErr)
	}

	return nil
}

// HandleText saves the message text as the user's pending text and confirms
// with the options keyboard. Every new text overwrites the previous one.
func (b *Bot) HandleText(ctx context.Context, event core.TextEvent) error {
	b.store.SetPendingText(event.UserID, strings.TrimSpace(event.Text))

	prefs := b.store.Ensure(event.UserID)
	keyboard := Keyboard(prefs)

	sendErr := b.messenger.SendMessage(ctx, event.ChatID, textSavedText, &keyboard)
	if sendErr != nil {
		return fmt.Errorf("failed to confirm saved text: %w", sendErr)
	}

	return nil
}

// HandleButton interprets a button press: preference categories mutate the
// session and redraw the keyboard, generate runs the pipeline. Unknown
// categories are logged and acknowledged without any state change.
func (b *Bot) HandleButton(ctx context.Context, event core.ButtonEvent) error {
	b.store.Ensure(event.UserID)

	category := session.Category(event.Category)

	switch category {
	case session.CategoryLanguage, session.CategorySpeed, session.CategoryOutputFormat:
		return b.handlePreference(ctx, event, category)
	case session.CategoryGenerate:
		return b.handleGenerate(ctx, event)
	default:
		b.log.Warn(
			"Ignoring button event with unknown category %q from user %s",
			event.Category, event.UserID,
		)

		return b.answer(ctx, event.EventID, ackUnknownOption)
	}
}

// handlePreference writes one preference through the store, acknowledges
// the press, and redraws the keyboard with the updated selection.
func (b *Bot) handlePreference(
	ctx context.Context,
	event core.ButtonEvent,
	category session.Category,
) error {
	prefs, setErr := b.store.SetPreference(event.UserID, category, event.Value)
	if setErr != nil {
		// The button set is closed, so an invalid value means a
		// malformed event; ignore it after acknowledging.
		if errors.Is(setErr, session.ErrInvalidOption) {
			b.log.Warn("Rejected preference event from user %s: %v", event.UserID, setErr)

			return b.answer(ctx, event.EventID, ackUnknownOption)
		}

		return fmt.Errorf("failed to set preference: %w", setErr)
	}

	ackErr := b.answer(ctx, event.EventID, preferenceAck(category, event.Value))
	if ackErr != nil {
		return ackErr
	}

	editErr := b.messenger.EditKeyboard(ctx, event.ChatID, event.MessageID, Keyboard(prefs))
	if editErr != nil {
		return fmt.Errorf("failed to update keyboard: %w", editErr)
	}

	return nil
}

// handleGenerate snapshots the session and runs the pipeline. A missing
// text and a synthesis failure are both user-visible, non-fatal notices.
func (b *Bot) handleGenerate(ctx context.Context, event core.ButtonEvent) error {
	snapshot, snapErr := b.store.Snapshot(event.UserID)
	if snapErr != nil {
		return fmt.Errorf("failed to snapshot session: %w", snapErr)
	}

	if !snapshot.HasText || snapshot.PendingText == "" {
		return b.answer(ctx, event.EventID, ackNoText)
	}

	ackErr := b.answer(ctx, event.EventID, ackGenerating)
	if ackErr != nil {
		b.log.Warn("Failed to acknowledge generate press for user %s: %v", event.UserID, ackErr)
	}

	result, genErr := b.pipeline.Generate(ctx, snapshot.PendingText, snapshot.Preferences)
	if genErr != nil {
		b.log.Error("Generation failed for user %s: %v", event.UserID, genErr)

		sendErr := b.messenger.SendMessage(ctx, event.ChatID, generationErrNotice, nil)
		if sendErr != nil {
			return fmt.Errorf("failed to send generation failure notice: %w", sendErr)
		}

		return nil
	}

	return b.deliver(ctx, event.ChatID, result)
}

// deliver hands the generated payload to the messenger in its decided
// format.
func (b *Bot) deliver(ctx context.Context, chatID string, result pipeline.Result) error {
	switch result.Kind {
	case pipeline.PayloadVoice:
		voiceErr := b.messenger.SendVoice(ctx, chatID, result.Data, result.Caption)
		if voiceErr != nil {
			return fmt.Errorf("failed to send voice payload: %w", voiceErr)
		}
	case pipeline.PayloadAudio:
		audioErr := b.messenger.SendAudio(ctx, chatID, result.Data, result.FileName, result.Caption)
		if audioErr != nil {
			return fmt.Errorf("failed to send audio payload: %w", audioErr)
		}
	}

	return nil
}

func (b *Bot) answer(ctx context.Context, eventID, text string) error {
	answerErr := b.messenger.AnswerEvent(ctx, eventID, text)
	if answerErr != nil {
		return fmt.Errorf("failed to answer button event: %w", answerErr)
	}

	return nil
}

// preferenceAck builds the "Language set to en" style acknowledgement.
func preferenceAck(category session.Category, value string) string {
	name := []rune(string(category))
	name[0] = unicode.ToUpper(name[0])

	return fmt.Sprintf("%s set to %s", string(name), value)
}
