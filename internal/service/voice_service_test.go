package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bolbazaar/catalog-api/internal/testutil"
	"github.com/bolbazaar/catalog-api/internal/voice"
)

func newTestVoiceService(speech *testutil.MockSpeechProvider) *VoiceService {
	return NewVoiceService(testutil.TestConfig(), speech)
}

func TestParseUtterance_Success(t *testing.T) {
	svc := newTestVoiceService(nil)

	result, err := svc.ParseUtterance("Add 1kg tomatoes for ₹30")
	if err != nil {
		t.Fatalf("ParseUtterance error: %v", err)
	}
	if result.Command == nil {
		t.Fatalf("Command is nil, hint: %q", result.Hint)
	}
	if result.Command.ProductName != "tomatoes" {
		t.Errorf("ProductName = %q", result.Command.ProductName)
	}
	if result.Intent != voice.IntentAddProduct {
		t.Errorf("Intent = %q, want add_product", result.Intent)
	}
	if result.Hint != "" {
		t.Errorf("Hint should be empty on a successful parse, got %q", result.Hint)
	}
}

func TestParseUtterance_NormalizesBeforeParsing(t *testing.T) {
	svc := newTestVoiceService(nil)

	result, err := svc.ParseUtterance("  rice   5 kilos   ₹250 ")
	if err != nil {
		t.Fatalf("ParseUtterance error: %v", err)
	}
	if result.Command == nil {
		t.Fatalf("Command is nil, transcript: %q", result.Transcript)
	}
	if result.Command.Unit != "kg" {
		t.Errorf("Unit = %q, want 'kg'", result.Command.Unit)
	}
	if result.Transcript != "rice 5 kg ₹250" {
		t.Errorf("Transcript = %q", result.Transcript)
	}
}

func TestParseUtterance_UnparseableGetsHint(t *testing.T) {
	svc := newTestVoiceService(nil)

	result, err := svc.ParseUtterance("show me everything please")
	if err != nil {
		t.Fatalf("ParseUtterance error: %v", err)
	}
	if result.Command != nil {
		t.Errorf("Command should be nil, got %+v", result.Command)
	}
	if result.Hint == "" {
		t.Error("Hint should be set for an unparseable utterance")
	}
	if result.Intent != voice.IntentSearchProduct {
		t.Errorf("Intent = %q, want search_product", result.Intent)
	}
}

func TestParseUtterance_Empty(t *testing.T) {
	svc := newTestVoiceService(nil)

	if _, err := svc.ParseUtterance(""); err == nil {
		t.Fatal("ParseUtterance with empty input should fail")
	}
}

func TestParseAudio_Success(t *testing.T) {
	speech := &testutil.MockSpeechProvider{
		TranscribeAudioFunc: func(ctx context.Context, audioData []byte) (string, error) {
			return "add 2kg onions 50 rupees", nil
		},
	}
	svc := newTestVoiceService(speech)

	result, err := svc.ParseAudio(context.Background(), []byte("fake-audio"))
	if err != nil {
		t.Fatalf("ParseAudio error: %v", err)
	}
	if result.Command == nil {
		t.Fatalf("Command is nil, hint: %q", result.Hint)
	}
	if result.Command.ProductName != "onions" {
		t.Errorf("ProductName = %q", result.Command.ProductName)
	}
}

func TestParseAudio_TranscriptionError(t *testing.T) {
	speech := &testutil.MockSpeechProvider{
		TranscribeAudioFunc: func(ctx context.Context, audioData []byte) (string, error) {
			return "", errors.New("whisper unavailable")
		},
	}
	svc := newTestVoiceService(speech)

	if _, err := svc.ParseAudio(context.Background(), []byte("fake-audio")); err == nil {
		t.Fatal("ParseAudio should propagate transcription errors")
	}
}
