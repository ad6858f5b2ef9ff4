// Package pipeline turns a user's saved text and preferences into exactly
// one outbound payload, applying the voice-to-audio format fallback.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-bot/internal/core"
	"github.com/book-expert/tts-bot/internal/session"
)

// ErrSynthesisFailed indicates the speech engine call failed or timed out.
// It is the only pipeline failure surfaced to the user.
var ErrSynthesisFailed = errors.New("speech synthesis failed")

// Delivery constants for the audio fallback payload.
const (
	AudioFileName = "speech.mp3"
	CaptionVoice  = "Voice generated"
	CaptionAudio  = "Audio generated"
)

// PayloadKind is the delivery format of a generated payload.
type PayloadKind string

// Payload kinds. Voice is only produced when the user asked for it and
// transcoding succeeded; audio is the original synthesized stream.
const (
	PayloadVoice PayloadKind = "voice"
	PayloadAudio PayloadKind = "audio"
)

// Result is the single outbound payload produced by a generation request.
type Result struct {
	Kind     PayloadKind
	Data     []byte
	FileName string
	Caption  string
}

// Pipeline invokes the speech engine and decides the delivery format.
// The transcoder capability is probed once at construction and never
// re-queried.
type Pipeline struct {
	engine              core.SpeechEngine
	transcoder          core.Transcoder
	transcoderAvailable bool
	synthesisTimeout    time.Duration
	transcodeTimeout    time.Duration
	log                 *logger.Logger
}

// New creates a pipeline around the given engine and transcoder. A nil
// transcoder disables voice delivery entirely.
func New(
	engine core.SpeechEngine,
	transcoder core.Transcoder,
	synthesisTimeout time.Duration,
	transcodeTimeout time.Duration,
	log *logger.Logger,
) *Pipeline {
	available := transcoder != nil && transcoder.Available()

	return &Pipeline{
		engine:              engine,
		transcoder:          transcoder,
		transcoderAvailable: available,
		synthesisTimeout:    synthesisTimeout,
		transcodeTimeout:    transcodeTimeout,
		log:                 log,
	}
}

// TranscoderAvailable reports the capability flag computed at construction.
func (p *Pipeline) TranscoderAvailable() bool {
	return p.transcoderAvailable
}

// Generate synthesizes text with the given preferences and returns exactly
// one payload. Whenever synthesis itself succeeds the user receives some
// output: voice if requested and transcoding works, the original audio
// otherwise. No step is retried.
func (p *Pipeline) Generate(
	ctx context.Context,
	text string,
	prefs session.Preferences,
) (Result, error) {
	req := core.SpeechRequest{
		Text:     text,
		Language: string(prefs.Language),
		Slow:     prefs.Speed == session.SpeedSlow,
	}

	synthCtx, cancel := context.WithTimeout(ctx, p.synthesisTimeout)
	defer cancel()

	mp3Data, synthErr := p.engine.Synthesize(synthCtx, req)
	if synthErr != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSynthesisFailed, synthErr)
	}

	if prefs.OutputFormat == session.FormatVoice && p.transcoderAvailable {
		voiceData, transcodeErr := p.transcode(ctx, mp3Data)
		if transcodeErr == nil {
			return Result{
				Kind:     PayloadVoice,
				Data:     voiceData,
				FileName: "",
				Caption:  CaptionVoice,
			}, nil
		}

		// Transcode failures never reach the user; fall back to the
		// untranscoded audio.
		p.log.Warn("Transcode failed, delivering original audio: %v", transcodeErr)
	}

	return Result{
		Kind:     PayloadAudio,
		Data:     mp3Data,
		FileName: AudioFileName,
		Caption:  CaptionAudio,
	}, nil
}

// transcode runs the voice conversion under its own timeout and treats an
// empty result as a failure.
func (p *Pipeline) transcode(ctx context.Context, mp3Data []byte) ([]byte, error) {
	transcodeCtx, cancel := context.WithTimeout(ctx, p.transcodeTimeout)
	defer cancel()

	voiceData, err := p.transcoder.Transcode(transcodeCtx, mp3Data)
	if err != nil {
		return nil, fmt.Errorf("transcoder failed: %w", err)
	}

	if len(voiceData) == 0 {
		return nil, errors.New("transcoder produced no output")
	}

	return voiceData, nil
}
