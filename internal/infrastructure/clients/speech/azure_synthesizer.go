package speech

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aimehq/venue-intake/internal/domain/providers"
	"github.com/aimehq/venue-intake/pkg/config"
)

const outputFormat = "audio-24khz-48kbitrate-mono-mp3"

// AzureSynthesizer converts text to speech via the Azure Cognitive
// Services TTS REST endpoint
type AzureSynthesizer struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewAzureSynthesizer creates a new Azure TTS synthesizer
func NewAzureSynthesizer(cfg *config.SpeechConfig) (providers.SpeechSynthesizer, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("speech api key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "eastus"
	}

	return &AzureSynthesizer{
		apiKey:   cfg.APIKey,
		endpoint: fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Synthesize returns MP3 audio bytes for the given text and voice
func (s *AzureSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	ssml, err := buildSSML(text, voice)
	if err != nil {
		return nil, fmt.Errorf("failed to build ssml: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(ssml))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", outputFormat)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("speech request failed with status %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech response contained no audio")
	}

	return audio, nil
}

// buildSSML wraps the text in a speak document for the given voice. The
// voice name carries its own locale prefix, e.g. en-US-AriaNeural.
func buildSSML(text, voice string) (string, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return "", err
	}

	locale := voice
	if parts := strings.SplitN(voice, "-", 3); len(parts) == 3 {
		locale = parts[0] + "-" + parts[1]
	}

	return fmt.Sprintf(
		`<speak version='1.0' xml:lang='%s'><voice name='%s'>%s</voice></speak>`,
		locale, voice, escaped.String(),
	), nil
}
