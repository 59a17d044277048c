package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dividend is one declared dividend payout row. Amount is the gross
// amount before withholding tax and must be positive.
type Dividend struct {
	Date time.Time

	ID         string
	OwnerID    string
	BusinessID string
	// TransactionID links the payout to the bank transaction that paid it.
	TransactionID string

	Amount decimal.Decimal

	// WithholdingTaxPercentage overrides the statutory default when set.
	WithholdingTaxPercentage *decimal.Decimal
}
