package routes

import (
	"net/http"

	"github.com/aimehq/venue-intake/internal/api/handlers"
	"github.com/aimehq/venue-intake/internal/api/middleware"
	"github.com/aimehq/venue-intake/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	intakeHandler *handlers.IntakeHandler
	speechHandler *handlers.SpeechHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	intakeHandler *handlers.IntakeHandler,
	speechHandler *handlers.SpeechHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		intakeHandler: intakeHandler,
		speechHandler: speechHandler,
		metrics:       metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Intake endpoints
	r.mux.HandleFunc("POST /api/process-email", r.intakeHandler.ProcessEmail)
	r.mux.HandleFunc("POST /api/process-reply", r.intakeHandler.ProcessReply)
	r.mux.HandleFunc("GET /api/events/{id}", r.intakeHandler.GetEvent)

	// Text-to-speech endpoint
	if r.speechHandler != nil {
		r.mux.HandleFunc("POST /api/text-to-speech", r.speechHandler.TextToSpeech)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}
