package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a bank or card movement linked to a charge.
// Amount is signed: negative for money leaving the account.
type Transaction struct {
	EventDate time.Time
	// DebitDate is the value date; it drives exchange-rate lookup.
	DebitDate time.Time

	ID       string
	ChargeID string
	Currency string
	// AccountID is the bank/card account the movement happened on.
	AccountID string
	// BusinessID is the counterparty matched to the movement, if any.
	BusinessID        string
	SourceDescription string
	SourceReference   string

	Amount decimal.Decimal

	// IsFee marks supplemental fee movements attached to the charge.
	IsFee bool
}

// IsDebit reports whether the transaction takes money out of the account.
func (t *Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
