package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
)

// GenerateBatchRequest represents a request to generate ledgers for many
// charges in one sweep.
type GenerateBatchRequest struct {
	ChargeIDs []string `json:"charge_ids"`
}

// CreateTripExpenseRequest represents a request to create a trip expense
// together with its category extension.
type CreateTripExpenseRequest struct {
	TripID             string          `json:"trip_id"`
	EmployeeBusinessID string          `json:"employee_business_id"`
	Category           string          `json:"category"`
	Date               time.Time       `json:"date"`
	ValueDate          *time.Time      `json:"value_date,omitempty"`
	Currency           string          `json:"currency"`
	Amount             decimal.Decimal `json:"amount"`
	PaidByEmployee     bool            `json:"paid_by_employee"`
	Extension          map[string]any  `json:"extension,omitempty"`
}

// ToDomain converts to a domain expense.
func (r *CreateTripExpenseRequest) ToDomain() *domain.TripExpense {
	expense := &domain.TripExpense{
		TripID:             r.TripID,
		EmployeeBusinessID: r.EmployeeBusinessID,
		Category:           domain.TripCategory(r.Category),
		Date:               r.Date,
		Currency:           r.Currency,
		Amount:             r.Amount,
		PaidByEmployee:     r.PaidByEmployee,
	}
	if r.ValueDate != nil {
		expense.ValueDate = *r.ValueDate
	}
	return expense
}

// UpdateTripExpenseRequest represents a request to update a trip expense.
type UpdateTripExpenseRequest struct {
	EmployeeBusinessID string          `json:"employee_business_id"`
	Category           string          `json:"category"`
	Date               time.Time       `json:"date"`
	ValueDate          *time.Time      `json:"value_date,omitempty"`
	Currency           string          `json:"currency"`
	Amount             decimal.Decimal `json:"amount"`
	PaidByEmployee     bool            `json:"paid_by_employee"`
	Extension          map[string]any  `json:"extension,omitempty"`
	CoreChanged        bool            `json:"core_changed"`
}

// ToDomain converts to a domain expense with the given id.
func (r *UpdateTripExpenseRequest) ToDomain(id string) *domain.TripExpense {
	expense := &domain.TripExpense{
		ID:                 id,
		EmployeeBusinessID: r.EmployeeBusinessID,
		Category:           domain.TripCategory(r.Category),
		Date:               r.Date,
		Currency:           r.Currency,
		Amount:             r.Amount,
		PaidByEmployee:     r.PaidByEmployee,
	}
	if r.ValueDate != nil {
		expense.ValueDate = *r.ValueDate
	}
	return expense
}
