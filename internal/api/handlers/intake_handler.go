package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aimehq/venue-intake/internal/application/services"
	"github.com/aimehq/venue-intake/internal/domain/entities"
	apperrors "github.com/aimehq/venue-intake/pkg/errors"
)

// IntakeService defines the interface for intake operations
type IntakeService interface {
	Start(ctx context.Context, emailText, language string) (*services.IntakeResult, error)
	Continue(ctx context.Context, eventID, replyText string, roundNumber int) (*services.IntakeResult, error)
	GetEvent(ctx context.Context, eventID string) (*entities.EventRecord, error)
}

// IntakeHandler handles email intake requests
type IntakeHandler struct {
	service IntakeService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(service IntakeService) *IntakeHandler {
	return &IntakeHandler{
		service: service,
	}
}

type emailRequest struct {
	EmailContent string `json:"email_content"`
	Language     string `json:"language"`
}

type replyRequest struct {
	EventID      string `json:"event_id"`
	ReplyContent string `json:"reply_content"`
	RoundNumber  int    `json:"round_number"`
}

// ProcessEmail handles POST /api/process-email
func (h *IntakeHandler) ProcessEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if strings.TrimSpace(req.EmailContent) == "" {
		respondWithError(w, http.StatusBadRequest, "email_content is required")
		return
	}
	if req.Language == "" {
		req.Language = "English"
	}

	result, err := h.service.Start(r.Context(), req.EmailContent, req.Language)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ProcessReply handles POST /api/process-reply
func (h *IntakeHandler) ProcessReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.EventID == "" {
		respondWithError(w, http.StatusBadRequest, "event_id is required")
		return
	}
	if strings.TrimSpace(req.ReplyContent) == "" {
		respondWithError(w, http.StatusBadRequest, "reply_content is required")
		return
	}
	if req.RoundNumber < 1 {
		respondWithError(w, http.StatusBadRequest, "round_number must be at least 1")
		return
	}

	result, err := h.service.Continue(r.Context(), req.EventID, req.ReplyContent, req.RoundNumber)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetEvent handles GET /api/events/{id}
func (h *IntakeHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	record, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps typed application errors onto HTTP statuses
func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeExtraction:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}
