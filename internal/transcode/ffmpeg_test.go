// Package transcode_test tests the ffmpeg transcoder wrapper.
package transcode_test

import (
	"context"
	"testing"

	"github.com/book-expert/logger"
	"github.com/book-expert/tts-bot/internal/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	testLogger, err := logger.New(t.TempDir(), "test-log.log")
	require.NoError(t, err)

	return testLogger
}

func TestNewWithBinary_MissingBinary(t *testing.T) {
	t.Parallel()

	ffmpeg := transcode.NewWithBinary("definitely-not-a-real-binary", newTestLogger(t))

	assert.False(t, ffmpeg.Available())
}

func TestTranscode_Unavailable(t *testing.T) {
	t.Parallel()

	ffmpeg := transcode.NewWithBinary("definitely-not-a-real-binary", newTestLogger(t))

	_, err := ffmpeg.Transcode(context.Background(), []byte("mp3-data"))
	require.ErrorIs(t, err, transcode.ErrUnavailable)
}

func TestTranscode_EmptyInput(t *testing.T) {
	t.Parallel()

	// "true" exists on any PATH, making the probe succeed so the input
	// check is reachable.
	ffmpeg := transcode.NewWithBinary("true", newTestLogger(t))
	if !ffmpeg.Available() {
		t.Skip("no 'true' binary on PATH")
	}

	_, err := ffmpeg.Transcode(context.Background(), nil)
	require.ErrorIs(t, err, transcode.ErrNoInput)
}
