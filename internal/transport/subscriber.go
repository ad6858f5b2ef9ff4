// Package transport connects the bot to NATS: a subscriber decodes inbound
// chat events and dispatches them to the bot, and a messenger publishes the
// bot's outbound actions.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-bot/internal/bot"
	"github.com/book-expert/tts-bot/internal/config"
	"github.com/book-expert/tts-bot/internal/core"
	"github.com/nats-io/nats.go"
)

// handleEventTimeout bounds the handling of one inbound event, including
// synthesis and transcoding on a generate press.
const handleEventTimeout = 120 * time.Second

// Subscriber listens for inbound chat events and dispatches them to the
// bot. Events on different subjects are handled concurrently; the session
// store serializes per-user mutations.
type Subscriber struct {
	natsConnection *nats.Conn
	cfg            config.NATSConfig
	bot            *bot.Bot
	log            *logger.Logger
}

// NewSubscriber creates a subscriber for the configured inbound subjects.
func NewSubscriber(
	natsConnection *nats.Conn,
	cfg config.NATSConfig,
	botHandler *bot.Bot,
	log *logger.Logger,
) *Subscriber {
	return &Subscriber{
		natsConnection: natsConnection,
		cfg:            cfg,
		bot:            botHandler,
		log:            log,
	}
}

// Run subscribes to the inbound subjects and blocks until the context is
// cancelled, then drains the subscriptions.
func (s *Subscriber) Run(ctx context.Context) error {
	subjects := map[string]nats.MsgHandler{
		s.cfg.WelcomeSubject: s.handleWelcome,
		s.cfg.TextSubject:    s.handleText,
		s.cfg.ButtonSubject:  s.handleButton,
	}

	subscriptions := make([]*nats.Subscription, 0, len(subjects))

	for subject, handler := range subjects {
		sub, err := s.natsConnection.Subscribe(subject, handler)
		if err != nil {
			return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
		}

		subscriptions = append(subscriptions, sub)
	}

	<-ctx.Done()

	for _, sub := range subscriptions {
		drainErr := sub.Drain()
		if drainErr != nil {
			return fmt.Errorf("failed to drain subscription: %w", drainErr)
		}
	}

	return nil
}

func (s *Subscriber) handleWelcome(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleEventTimeout)
	defer cancel()

	event, parseErr := parseInbound(msg)
	if parseErr != nil {
		s.log.Error("Failed to parse welcome event: %v", parseErr)

		return
	}

	handleErr := s.bot.HandleWelcome(ctx, core.WelcomeEvent{
		UserID: event.UserID,
		ChatID: event.ChatID,
	})
	if handleErr != nil {
		s.log.Error("Failed to handle welcome event for user %s: %v", event.UserID, handleErr)
	}
}

func (s *Subscriber) handleText(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleEventTimeout)
	defer cancel()

	event, parseErr := parseInbound(msg)
	if parseErr != nil {
		s.log.Error("Failed to parse text event: %v", parseErr)

		return
	}

	handleErr := s.bot.HandleText(ctx, core.TextEvent{
		UserID: event.UserID,
		ChatID: event.ChatID,
		Text:   event.Text,
	})
	if handleErr != nil {
		s.log.Error("Failed to handle text event for user %s: %v", event.UserID, handleErr)
	}
}

func (s *Subscriber) handleButton(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleEventTimeout)
	defer cancel()

	event, parseErr := parseInbound(msg)
	if parseErr != nil {
		s.log.Error("Failed to parse button event: %v", parseErr)

		return
	}

	handleErr := s.bot.HandleButton(ctx, core.ButtonEvent{
		UserID:    event.UserID,
		ChatID:    event.ChatID,
		MessageID: event.MessageID,
		EventID:   event.Header.EventID,
		Category:  event.Category,
		Value:     event.Value,
	})
	if handleErr != nil {
		s.log.Error("Failed to handle button event for user %s: %v", event.UserID, handleErr)
	}
}

func parseInbound(msg *nats.Msg) (*InboundEvent, error) {
	var event InboundEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal inbound event: %w", err)
	}

	return &event, nil
}
