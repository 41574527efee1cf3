package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aimehq/venue-intake/internal/adapters/cache"
	"github.com/aimehq/venue-intake/internal/adapters/database"
	"github.com/aimehq/venue-intake/internal/api/handlers"
	"github.com/aimehq/venue-intake/internal/api/routes"
	"github.com/aimehq/venue-intake/internal/application/services"
	"github.com/aimehq/venue-intake/internal/domain/providers"
	"github.com/aimehq/venue-intake/internal/domain/repositories"
	"github.com/aimehq/venue-intake/internal/i18n"
	"github.com/aimehq/venue-intake/internal/infrastructure/clients/groq"
	"github.com/aimehq/venue-intake/internal/infrastructure/clients/postgres"
	"github.com/aimehq/venue-intake/internal/infrastructure/clients/redis"
	"github.com/aimehq/venue-intake/internal/infrastructure/clients/speech"
	"github.com/aimehq/venue-intake/internal/infrastructure/observability"
	"github.com/aimehq/venue-intake/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Create base lead adapter, wrapped with caching if Redis is available
	baseLeadAdapter := database.NewLeadAdapter(pgClient)

	var leadRepo repositories.LeadRepository
	if cacheProvider != nil {
		leadRepo = database.NewCachedLeadAdapter(baseLeadAdapter, cacheProvider)
		log.Println("Lead adapter wrapped with caching layer")
	} else {
		leadRepo = baseLeadAdapter
		log.Println("Lead adapter running without cache (Redis unavailable)")
	}

	// Initialize the extraction client
	if cfg.Groq.APIKey == "" {
		log.Fatalf("GROQ_API_KEY is not set; email extraction cannot run")
	}
	extractor, err := groq.NewClient(&cfg.Groq)
	if err != nil {
		log.Fatalf("Failed to initialize Groq client: %v", err)
	}

	// Initialize the speech synthesizer if configured
	var synthesizer providers.SpeechSynthesizer
	if cfg.Speech.APIKey == "" {
		log.Println("Warning: SPEECH_API_KEY is not set; text-to-speech disabled")
	} else {
		synthesizer, err = speech.NewAzureSynthesizer(&cfg.Speech)
		if err != nil {
			log.Printf("Warning: Failed to initialize speech synthesizer: %v", err)
		}
	}

	// Initialize services
	catalog := i18n.DefaultCatalog()
	communicator := services.NewCommunicator(catalog)
	intakeService := services.NewIntakeService(leadRepo, extractor, communicator)

	var speechService *services.SpeechService
	if synthesizer != nil {
		speechService = services.NewSpeechService(synthesizer, catalog)
	}

	// Initialize handlers
	intakeHandler := handlers.NewIntakeHandler(intakeService)

	var speechHandler *handlers.SpeechHandler
	if speechService != nil {
		speechHandler = handlers.NewSpeechHandler(speechService)
	}

	// Set up router
	router := routes.NewRouter(intakeHandler, speechHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
