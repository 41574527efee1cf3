package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// SpeechService defines the interface for text-to-speech operations
type SpeechService interface {
	GenerateSpeech(ctx context.Context, text, language string) (string, error)
}

// SpeechHandler handles text-to-speech requests
type SpeechHandler struct {
	service SpeechService
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(service SpeechService) *SpeechHandler {
	return &SpeechHandler{
		service: service,
	}
}

type speechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// TextToSpeech handles POST /api/text-to-speech
func (h *SpeechHandler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Language == "" {
		req.Language = "English"
	}

	audio, err := h.service.GenerateSpeech(r.Context(), req.Text, req.Language)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"audio_base64": audio,
	})
}
