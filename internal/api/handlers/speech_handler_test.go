package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aimehq/venue-intake/internal/api/handlers"
	apperrors "github.com/aimehq/venue-intake/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSpeechService defines the mock service
type MockSpeechService struct {
	mock.Mock
}

func (m *MockSpeechService) GenerateSpeech(ctx context.Context, text, language string) (string, error) {
	args := m.Called(ctx, text, language)
	return args.String(0), args.Error(1)
}

func TestSpeechHandler_TextToSpeech(t *testing.T) {
	t.Run("returns base64 audio", func(t *testing.T) {
		mockService := new(MockSpeechService)
		handler := handlers.NewSpeechHandler(mockService)

		body, _ := json.Marshal(map[string]string{
			"text":     "Thank you for your message",
			"language": "Spanish",
		})
		req := httptest.NewRequest("POST", "/api/text-to-speech", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		mockService.On("GenerateSpeech", mock.Anything, "Thank you for your message", "Spanish").
			Return("UklGRg==", nil)

		handler.TextToSpeech(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "UklGRg==", resp["audio_base64"])
	})

	t.Run("maps short text to bad request", func(t *testing.T) {
		mockService := new(MockSpeechService)
		handler := handlers.NewSpeechHandler(mockService)

		body, _ := json.Marshal(map[string]string{"text": "hi"})
		req := httptest.NewRequest("POST", "/api/text-to-speech", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		mockService.On("GenerateSpeech", mock.Anything, "hi", "English").
			Return("", apperrors.NewValidationError("text is too short to synthesize"))

		handler.TextToSpeech(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps synthesis failure to bad gateway", func(t *testing.T) {
		mockService := new(MockSpeechService)
		handler := handlers.NewSpeechHandler(mockService)

		body, _ := json.Marshal(map[string]string{"text": "Thank you for your message"})
		req := httptest.NewRequest("POST", "/api/text-to-speech", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		mockService.On("GenerateSpeech", mock.Anything, mock.Anything, mock.Anything).
			Return("", apperrors.NewExternalError("speech synthesis failed", nil))

		handler.TextToSpeech(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
