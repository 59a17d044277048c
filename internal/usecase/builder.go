package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
)

// ChargeBundle is the typed set of source records an entry builder
// consumes. Only the slices relevant to the charge's type are loaded.
type ChargeBundle struct {
	Charge       *domain.Charge
	Transactions []*domain.Transaction
	Documents    []*domain.Document
	Dividends    []*domain.Dividend
	TripExpenses []*domain.TripExpense
}

// BuildResult carries the draft records a builder produced together with
// the per-item errors it collected while continuing past bad records.
type BuildResult struct {
	Records []*domain.LedgerRecord
	Errors  []string
}

// EntryBuilder transforms a charge bundle into draft ledger records,
// feeding the tracker as it goes. A returned error is fatal for the
// whole charge; per-item failures go into BuildResult.Errors instead.
type EntryBuilder interface {
	Build(ctx context.Context, bundle *ChargeBundle, tracker *BalanceTracker) (*BuildResult, error)
}

// collect appends a per-item error and lets the caller continue.
func (r *BuildResult) collect(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *BuildResult) add(record *domain.LedgerRecord) {
	r.Records = append(r.Records, record)
}

// applyConversion copies a slot-1 conversion onto both sides of a record.
func applyConversion(record *domain.LedgerRecord, conv Conversion) {
	record.LocalCurrencyCreditAmount1 = conv.Local
	record.LocalCurrencyDebitAmount1 = conv.Local
	record.CurrencyRate = conv.Rate

	if conv.Foreign != nil {
		foreign := conv.Foreign.Abs()
		record.CreditAmount1 = &foreign
		record.DebitAmount1 = &foreign
	}
}

// splitSlot2 moves amount off one side of slot 1 into slot 2 against
// account. Used for VAT and withholding-tax splits; the record keeps one
// currency, the counterparty side keeps the full amount.
func splitSlot2(record *domain.LedgerRecord, account string, local decimal.Decimal, foreign *decimal.Decimal, credit bool) {
	if credit {
		record.CreditAccountID2 = account
		record.LocalCurrencyCreditAmount2 = local
		record.CreditAmount2 = foreign
		record.LocalCurrencyCreditAmount1 = record.LocalCurrencyCreditAmount1.Sub(local)
		if record.CreditAmount1 != nil && foreign != nil {
			reduced := record.CreditAmount1.Sub(*foreign)
			record.CreditAmount1 = &reduced
		}
		return
	}

	record.DebitAccountID2 = account
	record.LocalCurrencyDebitAmount2 = local
	record.DebitAmount2 = foreign
	record.LocalCurrencyDebitAmount1 = record.LocalCurrencyDebitAmount1.Sub(local)
	if record.DebitAmount1 != nil && foreign != nil {
		reduced := record.DebitAmount1.Sub(*foreign)
		record.DebitAmount1 = &reduced
	}
}
