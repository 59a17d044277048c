package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgergen/internal/adapter/http/dto"
	"github.com/iho/ledgergen/internal/usecase"
)

// TripHandler handles business-trip expense requests.
type TripHandler struct {
	tripUC *usecase.TripExpenseUseCase
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripUC *usecase.TripExpenseUseCase) *TripHandler {
	return &TripHandler{tripUC: tripUC}
}

// Create creates a trip expense together with its category extension.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.tripUC.CreateExpense(r.Context(), usecase.CreateExpenseInput{
		Expense:   req.ToDomain(),
		Extension: req.Extension,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create trip expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TripExpenseFromDomain(expense))
}

// Update updates a trip expense and its category extension.
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "id")

	var req dto.UpdateTripExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	err := h.tripUC.UpdateExpense(r.Context(), usecase.UpdateExpenseInput{
		Expense:     req.ToDomain(expenseID),
		Extension:   req.Extension,
		CoreChanged: req.CoreChanged,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update trip expense", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
