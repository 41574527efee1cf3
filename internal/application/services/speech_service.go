package services

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/aimehq/venue-intake/internal/domain/providers"
	"github.com/aimehq/venue-intake/internal/i18n"
	apperrors "github.com/aimehq/venue-intake/pkg/errors"
)

// maxSpokenRunes bounds the text sent to the synthesizer; longer input is
// cut and marked with an ellipsis
const maxSpokenRunes = 600

// SpeechService converts rendered email text into spoken audio, selecting
// a voice per language from the catalog
type SpeechService struct {
	synthesizer providers.SpeechSynthesizer
	catalog     i18n.Catalog
}

// NewSpeechService creates a new speech service
func NewSpeechService(synthesizer providers.SpeechSynthesizer, catalog i18n.Catalog) *SpeechService {
	return &SpeechService{
		synthesizer: synthesizer,
		catalog:     catalog,
	}
}

// GenerateSpeech returns base64-encoded audio for the given text. The
// language picks the voice, defaulting to the base language's voice when
// unmapped.
func (s *SpeechService) GenerateSpeech(ctx context.Context, text, language string) (string, error) {
	if len(strings.TrimSpace(text)) < 5 {
		return "", apperrors.NewValidationError("text is too short to synthesize")
	}

	spoken := PrepareSpokenText(text)
	voice := s.catalog.Voice(language)

	audio, err := s.synthesizer.Synthesize(ctx, spoken, voice)
	if err != nil {
		return "", apperrors.NewExternalError("speech synthesis failed", err)
	}

	return base64.StdEncoding.EncodeToString(audio), nil
}

// PrepareSpokenText flattens email formatting into speakable prose and
// truncates to the synthesis bound with a marker
func PrepareSpokenText(text string) string {
	clean := strings.ReplaceAll(text, "\n\n", ". ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	clean = strings.TrimSpace(clean)

	runes := []rune(clean)
	if len(runes) > maxSpokenRunes {
		clean = string(runes[:maxSpokenRunes]) + "..."
	}
	return clean
}
