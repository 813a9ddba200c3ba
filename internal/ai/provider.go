package ai

import "context"

// TextProvider generates marketing copy for catalog products.
type TextProvider interface {
	GenerateDescription(ctx context.Context, req DescriptionRequest) (string, error)
	GenerateTags(ctx context.Context, req TagsRequest) ([]string, error)
}

// SpeechProvider handles speech-to-text (Whisper).
type SpeechProvider interface {
	TranscribeAudio(ctx context.Context, audioData []byte) (string, error)
}

// DescriptionRequest holds the product fields the description prompt needs.
type DescriptionRequest struct {
	Name     string
	Category string
	Quantity string // display quantity, e.g. "1 kg"
	Price    string // numeric string, rupees
	Language string // display name, e.g. "Hindi"
}

// TagsRequest holds the product fields the tag prompt needs.
type TagsRequest struct {
	Name     string
	Category string
}
