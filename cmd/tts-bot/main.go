// main package for the tts-bot
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-bot/internal/bot"
	"github.com/book-expert/tts-bot/internal/config"
	"github.com/book-expert/tts-bot/internal/engine/gtranslate"
	"github.com/book-expert/tts-bot/internal/objectstore"
	"github.com/book-expert/tts-bot/internal/pipeline"
	"github.com/book-expert/tts-bot/internal/session"
	"github.com/book-expert/tts-bot/internal/transcode"
	"github.com/book-expert/tts-bot/internal/transport"
	"github.com/nats-io/nats.go"
)

const banner = `===============================
           TTS BOT
===============================`

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "tts-bot-bootstrap.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	return log, nil
}

func run() error {
	fmt.Println(banner)

	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		// If bootstrap logger fails, we can only print to stderr
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	return serve(cfg, finalLog)
}

// serve wires the components together and runs the event loop until the
// process is signalled.
func serve(cfg *config.Config, log *logger.Logger) error {
	// The transcoder capability is probed exactly once here and honored
	// for the process lifetime.
	ffmpeg := transcode.New(log)
	if !ffmpeg.Available() {
		log.Warn("ffmpeg not found; voice requests will fall back to plain audio")
	}

	engine, err := gtranslate.New(cfg.TTS.CacheDir, log)
	if err != nil {
		return fmt.Errorf("failed to create speech engine: %w", err)
	}

	pipe := pipeline.New(
		engine,
		ffmpeg,
		cfg.TTS.SynthesisTimeout(),
		cfg.TTS.TranscodeTimeout(),
		log,
	)

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}

	payloadStore, err := objectstore.New(jetstreamContext, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to create payload store: %w", err)
	}

	messenger := transport.NewMessenger(natsConnection, payloadStore, cfg.NATS, log)
	botHandler := bot.New(session.NewStore(), pipe, messenger, log)
	subscriber := transport.NewSubscriber(natsConnection, cfg.NATS, botHandler, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.System(
		"TTS-Bot successfully initialized. Listening for chat events on: %s, %s, %s",
		cfg.NATS.WelcomeSubject, cfg.NATS.TextSubject, cfg.NATS.ButtonSubject,
	)

	runErr := subscriber.Run(ctx)
	if runErr != nil {
		return fmt.Errorf("subscriber stopped with error: %w", runErr)
	}

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
