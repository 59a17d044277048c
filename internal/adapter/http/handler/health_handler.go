package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports process liveness and whether the backing stores
// the generation pipeline needs are reachable.
type HealthHandler struct {
	pool      *pgxpool.Pool
	rateCache *redis.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool *pgxpool.Pool, rateCache *redis.Client) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		rateCache: rateCache,
	}
}

// Liveness answers 200 as long as the process serves requests.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness answers 200 once the ledger store and the exchange-rate
// cache both respond to a ping. Generation cannot run without either.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "ledger store unreachable", err.Error())
		return
	}

	if err := h.rateCache.Ping(ctx).Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "rate cache unreachable", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "ready",
		"ledger_store": "ok",
		"rate_cache":   "ok",
	})
}
