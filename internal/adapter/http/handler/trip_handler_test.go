package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/adapter/http/dto"
	"github.com/iho/ledgergen/internal/domain"
	"github.com/iho/ledgergen/internal/usecase"
	"github.com/iho/ledgergen/internal/usecase/mocks"
)

type tripHandlerFixture struct {
	tripRepo *mocks.MockTripRepository
	flights  *mocks.MockTripCategoryProvider

	router http.Handler
}

func newTripHandlerFixture() *tripHandlerFixture {
	f := &tripHandlerFixture{
		tripRepo: mocks.NewMockTripRepository(),
		flights:  mocks.NewMockTripCategoryProvider(domain.TripCategoryFlight),
	}

	uc := usecase.NewTripExpenseUseCase(
		mocks.NewMockTransactionManager(),
		f.tripRepo,
		[]usecase.TripCategoryProvider{f.flights},
		mocks.NewMockIDGenerator(),
	)

	h := NewTripHandler(uc)

	r := chi.NewRouter()
	r.Post("/api/v1/trip-expenses", h.Create)
	r.Put("/api/v1/trip-expenses/{id}", h.Update)
	f.router = r

	return f
}

func TestTripHandler_Create(t *testing.T) {
	f := newTripHandlerFixture()

	body, _ := json.Marshal(dto.CreateTripExpenseRequest{
		TripID:             "trip-1",
		EmployeeBusinessID: "employee-1",
		Category:           string(domain.TripCategoryFlight),
		Date:               time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		Currency:           "ILS",
		Amount:             decimal.NewFromInt(1200),
		PaidByEmployee:     true,
		Extension:          map[string]any{"airline": "ELAL"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trip-expenses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TripExpenseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected a generated expense id")
	}
	if len(f.flights.Upserts) != 1 {
		t.Fatalf("expected 1 extension upsert, got %d", len(f.flights.Upserts))
	}
	if f.flights.Upserts[0].Fields["airline"] != "ELAL" {
		t.Fatalf("unexpected extension fields %v", f.flights.Upserts[0].Fields)
	}
}

func TestTripHandler_Create_UnknownCategory(t *testing.T) {
	f := newTripHandlerFixture()

	body, _ := json.Marshal(dto.CreateTripExpenseRequest{
		TripID:             "trip-1",
		EmployeeBusinessID: "employee-1",
		Category:           "SOUVENIRS",
		Date:               time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		Currency:           "ILS",
		Amount:             decimal.NewFromInt(50),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trip-expenses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTripHandler_Create_InvalidJSON(t *testing.T) {
	f := newTripHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trip-expenses", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTripHandler_Update(t *testing.T) {
	f := newTripHandlerFixture()
	f.tripRepo.Put(&domain.TripExpense{
		ID:                 "exp-1",
		TripID:             "trip-1",
		EmployeeBusinessID: "employee-1",
		Category:           domain.TripCategoryFlight,
		Date:               time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		Currency:           "ILS",
		Amount:             decimal.NewFromInt(1200),
		PaidByEmployee:     true,
	})

	body, _ := json.Marshal(dto.UpdateTripExpenseRequest{
		EmployeeBusinessID: "employee-1",
		Category:           string(domain.TripCategoryFlight),
		Date:               time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
		Currency:           "ILS",
		Amount:             decimal.NewFromInt(1300),
		PaidByEmployee:     true,
		CoreChanged:        true,
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/trip-expenses/exp-1", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.flights.CoreUpdates) != 1 {
		t.Fatalf("expected core update to reach the provider, got %d", len(f.flights.CoreUpdates))
	}
}

func TestTripHandler_Update_NotFound(t *testing.T) {
	f := newTripHandlerFixture()

	body, _ := json.Marshal(dto.UpdateTripExpenseRequest{
		Category: string(domain.TripCategoryFlight),
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/trip-expenses/missing", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
