package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bolbazaar/catalog-api/internal/ai"
	"github.com/bolbazaar/catalog-api/internal/config"
	"github.com/bolbazaar/catalog-api/internal/voice"
)

// VoiceService turns raw audio or dictated text into parsed catalog commands.
type VoiceService struct {
	Cfg            *config.Config
	SpeechProvider ai.SpeechProvider
}

// NewVoiceService creates a new VoiceService.
func NewVoiceService(cfg *config.Config, speechProvider ai.SpeechProvider) *VoiceService {
	return &VoiceService{
		Cfg:            cfg,
		SpeechProvider: speechProvider,
	}
}

// ParseResult is what a parsed utterance looks like to clients.
type ParseResult struct {
	Transcript string               `json:"transcript"`
	Intent     voice.Intent         `json:"intent"`
	Command    *voice.ParsedCommand `json:"command,omitempty"`
	// Hint is set instead of Command when the utterance did not match any
	// pattern, showing the seller a phrasing that will.
	Hint string `json:"hint,omitempty"`
}

// RetryHint is shown when an utterance does not match any command pattern.
const RetryHint = `Could not understand the command. Try: "add 1kg tomatoes 30 rupees"`

// ParseUtterance normalizes and parses dictated text. An unparseable
// utterance is not an error; the result carries a retry hint instead.
func (s *VoiceService) ParseUtterance(utterance string) (*ParseResult, error) {
	if utterance == "" {
		return nil, errors.New("utterance is required")
	}

	normalized := voice.Normalize(utterance)
	result := &ParseResult{
		Transcript: normalized,
		Intent:     voice.DetectIntent(normalized),
	}

	cmd, err := voice.Parse(normalized)
	if err != nil {
		if errors.Is(err, voice.ErrNoMatch) {
			result.Hint = RetryHint
			return result, nil
		}
		return nil, err
	}

	result.Command = cmd
	return result, nil
}

// ParseAudio transcribes audio server-side and parses the transcript.
func (s *VoiceService) ParseAudio(ctx context.Context, audioData []byte) (*ParseResult, error) {
	transcript, err := s.SpeechProvider.TranscribeAudio(ctx, audioData)
	if err != nil {
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}
	return s.ParseUtterance(transcript)
}
