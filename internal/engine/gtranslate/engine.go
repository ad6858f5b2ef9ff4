// Package gtranslate implements the speech engine on top of the Google
// Translate TTS endpoint. Text is cleaned of markup, split into sentences,
// and synthesized sentence by sentence; the resulting MP3 segments are
// concatenated into one stream.
package gtranslate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	google_translate_tts "github.com/GrailFinder/google-translate-tts"
	"github.com/GrailFinder/google-translate-tts/handlers"
	"github.com/book-expert/logger"
	"github.com/book-expert/tts-bot/internal/core"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Speech rates sent to the endpoint. The engine is binary: slow or regular.
const (
	regularSpeechRate float32 = 1.0
	slowSpeechRate    float32 = 0.3
)

const cacheDirPermissions = 0o750

// Static errors.
var (
	ErrTextEmpty = errors.New("text cannot be empty")
	ErrNoAudio   = errors.New("engine produced no audio")
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// markupReplacer strips markdown markers that would otherwise be read out
// loud.
var markupReplacer = strings.NewReplacer(
	"*", "", "#", "", "_", "", "~", "", "`", "", "[", "", "]", "",
)

// Engine implements core.SpeechEngine using the Google Translate TTS
// library.
type Engine struct {
	cacheDir  string
	tokenizer *sentences.DefaultSentenceTokenizer
	log       *logger.Logger
}

// New creates an engine that caches generated audio under cacheDir.
func New(cacheDir string, log *logger.Logger) (*Engine, error) {
	tokenizer, tokenizerErr := english.NewSentenceTokenizer(nil)
	if tokenizerErr != nil {
		return nil, fmt.Errorf("failed to create sentence tokenizer: %w", tokenizerErr)
	}

	dirErr := os.MkdirAll(cacheDir, cacheDirPermissions)
	if dirErr != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", dirErr)
	}

	return &Engine{
		cacheDir:  cacheDir,
		tokenizer: tokenizer,
		log:       log,
	}, nil
}

// Synthesize converts the request text into a single MP3 stream. The
// underlying HTTP calls are bounded by the context: on cancellation or
// deadline the caller gets the context error and the in-flight work is
// abandoned.
func (e *Engine) Synthesize(ctx context.Context, req core.SpeechRequest) ([]byte, error) {
	text := CleanText(req.Text)
	if text == "" {
		return nil, ErrTextEmpty
	}

	type synthResult struct {
		data []byte
		err  error
	}

	resultChan := make(chan synthResult, 1)

	go func() {
		data, synthErr := e.synthesize(text, req.Language, req.Slow)
		resultChan <- synthResult{data: data, err: synthErr}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("synthesis aborted: %w", ctx.Err())
	case result := <-resultChan:
		if result.err != nil {
			return nil, result.err
		}

		return result.data, nil
	}
}

// synthesize splits the text into sentences and concatenates the MP3 output
// of each. A text with no sentence boundary is synthesized as one piece.
func (e *Engine) synthesize(text, language string, slow bool) ([]byte, error) {
	rate := regularSpeechRate
	if slow {
		rate = slowSpeechRate
	}

	speech := &google_translate_tts.Speech{
		Folder:   e.cacheDir,
		Language: language,
		Proxy:    "",
		Speed:    rate,
		Handler:  &handlers.Beep{},
	}

	parts := e.split(text)

	var audio bytes.Buffer

	for _, part := range parts {
		reader, speechErr := speech.GenerateSpeech(part)
		if speechErr != nil {
			return nil, fmt.Errorf("failed to generate speech: %w", speechErr)
		}

		data, readErr := io.ReadAll(reader)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read generated audio: %w", readErr)
		}

		audio.Write(data)
	}

	if audio.Len() == 0 {
		return nil, ErrNoAudio
	}

	e.log.Info("Synthesized %d bytes from %d sentence(s)", audio.Len(), len(parts))

	return audio.Bytes(), nil
}

// split tokenizes the text into non-empty sentences.
func (e *Engine) split(text string) []string {
	tokenized := e.tokenizer.Tokenize(text)

	parts := make([]string, 0, len(tokenized))

	for _, sentence := range tokenized {
		part := strings.TrimSpace(sentence.Text)
		if part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		parts = append(parts, text)
	}

	return parts
}

// CleanText removes markdown markers and HTML tags that are not suitable
// for speech.
func CleanText(text string) string {
	text = markupReplacer.Replace(text)
	text = htmlTagPattern.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}
