package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgergen/internal/adapter/http/dto"
	"github.com/iho/ledgergen/internal/usecase"
)

// GenerationHandler handles ledger generation requests.
type GenerationHandler struct {
	generationUC *usecase.GenerationUseCase
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationUC *usecase.GenerationUseCase) *GenerationHandler {
	return &GenerationHandler{generationUC: generationUC}
}

// Generate produces the ledger for one charge. With ?insert=true the
// records are persisted; otherwise the response is a pure preview.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	chargeID := chi.URLParam(r, "id")
	insert := r.URL.Query().Get("insert") == "true"

	result, err := h.generationUC.Generate(r.Context(), usecase.GenerateInput{
		ChargeID: chargeID,
		Insert:   insert,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "generation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.GenerationFromResult(result))
}

// ListRecords returns the stored ledger records of a charge.
func (h *GenerationHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	chargeID := chi.URLParam(r, "id")

	records, err := h.generationUC.ListRecords(r.Context(), chargeID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list records", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecordsFromDomain(records))
}

// ListCharges returns an owner's charges.
func (h *GenerationHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "id")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	charges, err := h.generationUC.ListCharges(r.Context(), ownerID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list charges", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargesFromDomain(charges))
}

// GenerateBatch produces ledgers for many charges as one unordered
// sweep. Per-charge failures land in the per-charge items; the sweep
// itself always answers 200.
func (h *GenerationHandler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if len(req.ChargeIDs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request", "charge_ids must not be empty")
		return
	}

	insert := r.URL.Query().Get("insert") == "true"

	results := h.generationUC.GenerateBatch(r.Context(), req.ChargeIDs, insert)

	writeJSON(w, http.StatusOK, dto.BatchFromResults(results))
}
