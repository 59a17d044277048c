package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
	"github.com/iho/ledgergen/internal/usecase"
)

// LedgerRecordResponse represents one draft record in API responses.
type LedgerRecordResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	ChargeID    string `json:"charge_id"`
	InvoiceDate string `json:"invoice_date"`
	ValueDate   string `json:"value_date"`
	Currency    string `json:"currency"`

	CreditAccountID1 string `json:"credit_account_1"`
	DebitAccountID1  string `json:"debit_account_1"`
	CreditAccountID2 string `json:"credit_account_2,omitempty"`
	DebitAccountID2  string `json:"debit_account_2,omitempty"`

	CreditAmount1 *decimal.Decimal `json:"credit_amount_1,omitempty"`
	DebitAmount1  *decimal.Decimal `json:"debit_amount_1,omitempty"`
	CreditAmount2 *decimal.Decimal `json:"credit_amount_2,omitempty"`
	DebitAmount2  *decimal.Decimal `json:"debit_amount_2,omitempty"`

	LocalCreditAmount1 decimal.Decimal `json:"local_credit_amount_1"`
	LocalDebitAmount1  decimal.Decimal `json:"local_debit_amount_1"`
	LocalCreditAmount2 decimal.Decimal `json:"local_credit_amount_2"`
	LocalDebitAmount2  decimal.Decimal `json:"local_debit_amount_2"`

	CurrencyRate *decimal.Decimal `json:"currency_rate,omitempty"`

	Description string `json:"description,omitempty"`
	Reference1  string `json:"reference_1,omitempty"`
}

// RecordFromDomain converts a domain record to a response.
func RecordFromDomain(r *domain.LedgerRecord) *LedgerRecordResponse {
	return &LedgerRecordResponse{
		ID:                 r.ID,
		OwnerID:            r.OwnerID,
		ChargeID:           r.ChargeID,
		InvoiceDate:        formatDate(r.InvoiceDate),
		ValueDate:          formatDate(r.ValueDate),
		Currency:           r.Currency,
		CreditAccountID1:   r.CreditAccountID1,
		DebitAccountID1:    r.DebitAccountID1,
		CreditAccountID2:   r.CreditAccountID2,
		DebitAccountID2:    r.DebitAccountID2,
		CreditAmount1:      r.CreditAmount1,
		DebitAmount1:       r.DebitAmount1,
		CreditAmount2:      r.CreditAmount2,
		DebitAmount2:       r.DebitAmount2,
		LocalCreditAmount1: r.LocalCurrencyCreditAmount1,
		LocalDebitAmount1:  r.LocalCurrencyDebitAmount1,
		LocalCreditAmount2: r.LocalCurrencyCreditAmount2,
		LocalDebitAmount2:  r.LocalCurrencyDebitAmount2,
		CurrencyRate:       r.CurrencyRate,
		Description:        r.Description,
		Reference1:         r.Reference1,
	}
}

// RecordsFromDomain converts domain records to responses.
func RecordsFromDomain(records []*domain.LedgerRecord) []*LedgerRecordResponse {
	result := make([]*LedgerRecordResponse, len(records))
	for i, r := range records {
		result[i] = RecordFromDomain(r)
	}
	return result
}

// BalanceResponse represents the balance verdict of a generation run.
type BalanceResponse struct {
	IsBalanced bool                       `json:"is_balanced"`
	Unbalanced []string                   `json:"unbalanced,omitempty"`
	Diffs      map[string]decimal.Decimal `json:"diffs,omitempty"`
}

// GenerationResponse represents a generation run in API responses.
type GenerationResponse struct {
	Records   []*LedgerRecordResponse `json:"records"`
	Balance   BalanceResponse         `json:"balance"`
	Errors    []string                `json:"errors,omitempty"`
	StoredIDs []string                `json:"stored_ids,omitempty"`
}

// GenerationFromResult converts a usecase result to a response.
func GenerationFromResult(result *usecase.GenerationResult) *GenerationResponse {
	return &GenerationResponse{
		Records: RecordsFromDomain(result.Records),
		Balance: BalanceResponse{
			IsBalanced: result.Balance.IsBalanced,
			Unbalanced: result.Balance.Unbalanced,
			Diffs:      result.Balance.Diffs,
		},
		Errors:    result.Errors,
		StoredIDs: result.StoredIDs,
	}
}

// BatchItemResponse represents one charge's outcome in a batch sweep.
type BatchItemResponse struct {
	Result *GenerationResponse `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// BatchFromResults converts batch outcomes to responses.
func BatchFromResults(results map[string]usecase.BatchItem) map[string]BatchItemResponse {
	response := make(map[string]BatchItemResponse, len(results))
	for chargeID, item := range results {
		out := BatchItemResponse{Error: item.Error}
		if item.Result != nil {
			out.Result = GenerationFromResult(item.Result)
		}
		response[chargeID] = out
	}
	return response
}

// ChargeResponse represents a charge in API responses.
type ChargeResponse struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	TaxCategoryID string `json:"tax_category_id,omitempty"`
	Type          string `json:"type"`
	CreatedAt     string `json:"created_at"`
}

// ChargeFromDomain converts a domain charge to a response.
func ChargeFromDomain(c *domain.Charge) *ChargeResponse {
	return &ChargeResponse{
		ID:            c.ID,
		OwnerID:       c.OwnerID,
		TaxCategoryID: c.TaxCategoryID,
		Type:          string(c.Type),
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}

// ChargesFromDomain converts domain charges to responses.
func ChargesFromDomain(charges []*domain.Charge) []*ChargeResponse {
	result := make([]*ChargeResponse, len(charges))
	for i, c := range charges {
		result[i] = ChargeFromDomain(c)
	}
	return result
}

// TripExpenseResponse represents a trip expense in API responses.
type TripExpenseResponse struct {
	ID                 string          `json:"id"`
	TripID             string          `json:"trip_id"`
	ChargeID           string          `json:"charge_id,omitempty"`
	EmployeeBusinessID string          `json:"employee_business_id"`
	Category           string          `json:"category"`
	Date               string          `json:"date"`
	ValueDate          string          `json:"value_date,omitempty"`
	Currency           string          `json:"currency"`
	Amount             decimal.Decimal `json:"amount"`
	PaidByEmployee     bool            `json:"paid_by_employee"`
}

// TripExpenseFromDomain converts a domain expense to a response.
func TripExpenseFromDomain(e *domain.TripExpense) *TripExpenseResponse {
	return &TripExpenseResponse{
		ID:                 e.ID,
		TripID:             e.TripID,
		ChargeID:           e.ChargeID,
		EmployeeBusinessID: e.EmployeeBusinessID,
		Category:           string(e.Category),
		Date:               formatDate(e.Date),
		ValueDate:          formatDate(e.ValueDate),
		Currency:           e.Currency,
		Amount:             e.Amount,
		PaidByEmployee:     e.PaidByEmployee,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
