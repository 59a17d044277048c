package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/ledgergen/internal/adapter/http/handler"
	apimiddleware "github.com/iho/ledgergen/internal/adapter/http/middleware"
	"github.com/iho/ledgergen/internal/domain"
	"github.com/iho/ledgergen/internal/usecase"
	"github.com/iho/ledgergen/internal/usecase/mocks"
)

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func newRouterConfig(opts ...func(cfg *RouterConfig)) RouterConfig {
	generationUC := usecase.NewGenerationUseCase(
		mocks.NewMockChargeRepository(),
		mocks.NewMockTransactionRepository(),
		mocks.NewMockDocumentRepository(),
		mocks.NewMockDividendRepository(),
		mocks.NewMockTripRepository(),
		mocks.NewMockLedgerRepository(),
		usecase.NewConverter(mocks.NewMockRateProvider(), ""),
		mocks.NewMockAccountResolver(),
		nil,
		zerolog.Nop(),
	)

	tripUC := usecase.NewTripExpenseUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockTripRepository(),
		[]usecase.TripCategoryProvider{mocks.NewMockTripCategoryProvider(domain.TripCategoryFlight)},
		mocks.NewMockIDGenerator(),
	)

	cfg := RouterConfig{
		GenerationHandler: handler.NewGenerationHandler(generationUC),
		TripHandler:       handler.NewTripHandler(tripUC),
		HealthHandler:     handler.NewHealthHandler(nil, nil),
		Logger:            zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charges/charge-1/ledger", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRouter, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	expected := []string{
		"POST /api/v1/charges/{id}/ledger",
		"POST /api/v1/charges/ledger:batch",
		"GET /api/v1/charges/{id}/ledger-records",
		"GET /api/v1/owners/{id}/charges",
		"POST /api/v1/trip-expenses/",
		"PUT /api/v1/trip-expenses/{id}",
	}

	found := make(map[string]bool)
	walker := func(method, route string, h http.Handler, mws ...func(http.Handler) http.Handler) error {
		found[method+" "+route] = true
		return nil
	}
	if err := chi.Walk(chiRouter, walker); err != nil {
		t.Fatalf("failed to walk routes: %v", err)
	}

	for _, key := range expected {
		if !found[key] {
			t.Errorf("route %s not registered", key)
		}
	}
}
