package providers

import (
	"context"
)

// SpeechSynthesizer defines the interface for text-to-speech conversion
type SpeechSynthesizer interface {
	// Synthesize converts text to audio bytes using the given voice id
	Synthesize(ctx context.Context, text string, voice string) ([]byte, error)
}
