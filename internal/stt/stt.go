// Package stt converts recorded speech to text.
package stt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/savemoney/internal/common"
)

// ErrUnavailable is returned when no transcription backend is configured.
var ErrUnavailable = fmt.Errorf("transcriber not configured: %w", common.ErrSTTUnavailable)

// ErrNoSpeech is returned when the backend recognized nothing.
var ErrNoSpeech = errors.New("no speech recognized")

// Transcriber turns an audio payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Config holds transcription settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	Timeout  time.Duration
	// Mock selects the canned-utterance transcriber when no APIKey is set.
	Mock bool
}

// New returns the transcriber selected by cfg: Whisper when an API key is
// present, the mock when requested, otherwise ErrUnavailable.
func New(cfg Config) (Transcriber, error) {
	switch {
	case cfg.APIKey != "":
		return NewWhisperClient(cfg), nil
	case cfg.Mock:
		return NewMockTranscriber(nil), nil
	default:
		return nil, ErrUnavailable
	}
}
