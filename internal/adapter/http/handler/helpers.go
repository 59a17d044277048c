package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/ledgergen/internal/adapter/http/dto"
	"github.com/iho/ledgergen/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrChargeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTripExpenseNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedChargeType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConversionLegCount),
		errors.Is(err, domain.ErrConversionLegSign),
		errors.Is(err, domain.ErrDividendNotMatched),
		errors.Is(err, domain.ErrDividendAmountInvalid),
		errors.Is(err, domain.ErrPaymentAmountInvalid),
		errors.Is(err, domain.ErrDividendLocalImbalance),
		errors.Is(err, domain.ErrTripAmountMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTripCategoryMismatch),
		errors.Is(err, domain.ErrTripExpenseImmutable),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
