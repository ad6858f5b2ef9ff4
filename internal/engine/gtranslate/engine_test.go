// Package gtranslate_test tests the text preparation of the speech engine.
// Synthesis itself talks to a remote endpoint and is exercised through the
// pipeline's engine interface with fakes.
package gtranslate_test

import (
	"context"
	"testing"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-bot/internal/core"
	"github.com/book-expert/tts-bot/internal/engine/gtranslate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *gtranslate.Engine {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "test-log.log")
	require.NoError(t, err)

	engine, err := gtranslate.New(t.TempDir(), testLogger)
	require.NoError(t, err)

	return engine
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello world", gtranslate.CleanText("**Hello** `world`"))
	assert.Equal(t, "link text", gtranslate.CleanText("[link _text_]"))
	assert.Equal(t, "plain", gtranslate.CleanText("<b>plain</b>"))
	assert.Equal(t, "trimmed", gtranslate.CleanText("  trimmed \n"))
	assert.Empty(t, gtranslate.CleanText(" *** "))
}

func TestSynthesize_EmptyText(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)

	req := core.SpeechRequest{Text: "   ", Language: "en", Slow: false}

	_, err := engine.Synthesize(context.Background(), req)
	require.ErrorIs(t, err, gtranslate.ErrTextEmpty)
}
