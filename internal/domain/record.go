package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRecord is one draft double-entry row produced for a charge.
//
// Each record carries up to two numbered credit/debit slots. Slot 1 holds
// the primary movement; slot 2 is reserved for a VAT or withholding-tax
// split and never changes the record's currency. For foreign-currency
// records the Amount fields hold the raw foreign amount and the
// LocalCurrency fields hold the converted amount; for records already in
// the reporting currency the foreign Amount fields stay nil.
type LedgerRecord struct {
	InvoiceDate time.Time
	ValueDate   time.Time

	ID       string
	OwnerID  string
	ChargeID string
	Currency string

	CreditAccountID1 string
	DebitAccountID1  string
	CreditAccountID2 string
	DebitAccountID2  string

	CreditAmount1 *decimal.Decimal
	DebitAmount1  *decimal.Decimal
	CreditAmount2 *decimal.Decimal
	DebitAmount2  *decimal.Decimal

	LocalCurrencyCreditAmount1 decimal.Decimal
	LocalCurrencyDebitAmount1  decimal.Decimal
	LocalCurrencyCreditAmount2 decimal.Decimal
	LocalCurrencyDebitAmount2  decimal.Decimal

	// CurrencyRate records the rate used for the conversion, for audit.
	CurrencyRate *decimal.Decimal

	Description string
	Reference1  string

	// IsCreditorCounterparty marks which side of slot 1 is the external
	// party: true when the creditor account is the counterparty.
	IsCreditorCounterparty bool
}

// Validate checks structural invariants of a draft record.
func (r *LedgerRecord) Validate() error {
	if r.ID == "" {
		return ErrMissingRecordID
	}

	if r.ChargeID == "" {
		return ErrMissingChargeID
	}

	if err := ValidateCurrency(r.Currency); err != nil {
		return err
	}

	if r.CreditAccountID1 == "" && r.DebitAccountID1 == "" {
		return ErrEmptyRecordSlot
	}

	return nil
}

// IsForeign reports whether the record was converted from a foreign currency.
func (r *LedgerRecord) IsForeign() bool {
	return r.CreditAmount1 != nil || r.DebitAmount1 != nil
}
