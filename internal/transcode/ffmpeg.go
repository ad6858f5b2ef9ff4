// Package transcode converts synthesized MP3 audio into the ogg/opus codec
// used for voice messages by calling the ffmpeg binary.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/book-expert/logger"
)

const defaultBinary = "ffmpeg"

const filePermissions = 0o600

// Static errors.
var (
	// ErrUnavailable indicates the transcoder binary was not found at
	// startup. Callers should fall back to delivering the original audio.
	ErrUnavailable = errors.New("transcoder binary not found")
	// ErrNoInput indicates there was no audio data to transcode.
	ErrNoInput = errors.New("no audio data to transcode")
)

// FFmpeg implements core.Transcoder. The binary is probed exactly once at
// construction; the availability flag is immutable for the process
// lifetime.
type FFmpeg struct {
	binary    string
	available bool
	log       *logger.Logger
}

// New probes for ffmpeg on the PATH.
func New(log *logger.Logger) *FFmpeg {
	return NewWithBinary(defaultBinary, log)
}

// NewWithBinary probes for a specific binary name. Primarily for testing.
func NewWithBinary(binary string, log *logger.Logger) *FFmpeg {
	_, lookErr := exec.LookPath(binary)

	return &FFmpeg{
		binary:    binary,
		available: lookErr == nil,
		log:       log,
	}
}

// Available reports whether the binary was found at startup.
func (f *FFmpeg) Available() bool {
	return f.available
}

// Transcode converts MP3 data to ogg/opus. The work goes through temp
// files because ffmpeg needs seekable input for some containers.
func (f *FFmpeg) Transcode(ctx context.Context, mp3Data []byte) ([]byte, error) {
	if !f.available {
		return nil, ErrUnavailable
	}

	if len(mp3Data) == 0 {
		return nil, ErrNoInput
	}

	inputPath, inputErr := f.writeTempInput(mp3Data)
	if inputErr != nil {
		return nil, inputErr
	}
	defer f.removeTemp(inputPath)

	outputFile, outputErr := os.CreateTemp("", "tts-voice-*.ogg")
	if outputErr != nil {
		return nil, fmt.Errorf("failed to create temp file for voice output: %w", outputErr)
	}

	outputPath := outputFile.Name()

	closeErr := outputFile.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close temp output file: %w", closeErr)
	}
	defer f.removeTemp(outputPath)

	args := []string{
		"-y",
		"-i", inputPath,
		"-c:a", "libopus",
		outputPath,
	}

	// #nosec G204 -- the binary name is fixed at construction and the
	// arguments are generated temp file paths
	cmd := exec.CommandContext(ctx, f.binary, args...)

	output, runErr := cmd.CombinedOutput()
	if runErr != nil {
		return nil, fmt.Errorf("ffmpeg execution failed: %w - output: %s", runErr, string(output))
	}

	voiceData, readErr := os.ReadFile(outputPath)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read transcoded audio: %w", readErr)
	}

	return voiceData, nil
}

func (f *FFmpeg) writeTempInput(mp3Data []byte) (string, error) {
	inputFile, createErr := os.CreateTemp("", "tts-voice-*.mp3")
	if createErr != nil {
		return "", fmt.Errorf("failed to create temp file for transcoder input: %w", createErr)
	}

	inputPath := inputFile.Name()

	closeErr := inputFile.Close()
	if closeErr != nil {
		return "", fmt.Errorf("failed to close temp input file: %w", closeErr)
	}

	writeErr := os.WriteFile(inputPath, mp3Data, filePermissions)
	if writeErr != nil {
		f.removeTemp(inputPath)

		return "", fmt.Errorf("failed to write transcoder input: %w", writeErr)
	}

	return inputPath, nil
}

func (f *FFmpeg) removeTemp(path string) {
	removeErr := os.Remove(path)
	if removeErr != nil {
		f.log.Warn("Failed to remove temp file '%s': %v", path, removeErr)
	}
}
