package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/ledgergen/internal/adapter/http/handler"
	"github.com/iho/ledgergen/internal/adapter/http/middleware"
	"github.com/iho/ledgergen/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	GenerationHandler *handler.GenerationHandler
	TripHandler       *handler.TripHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/charges", func(r chi.Router) {
			r.Post("/ledger:batch", cfg.GenerationHandler.GenerateBatch)
			r.Post("/{id}/ledger", cfg.GenerationHandler.Generate)
			r.Get("/{id}/ledger-records", cfg.GenerationHandler.ListRecords)
		})

		r.Get("/owners/{id}/charges", cfg.GenerationHandler.ListCharges)

		r.Route("/trip-expenses", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.Create)
			r.Put("/{id}", cfg.TripHandler.Update)
		})
	})

	return r
}
