package usecase

import "time"

const (
	// BalanceTolerance is the absolute residual below which an account
	// is considered balanced (minor-unit rounding noise).
	BalanceTolerance = "0.005"

	// DefaultWithholdingTaxPercent is the statutory withholding rate
	// applied to dividends when the payout row carries no override.
	DefaultWithholdingTaxPercent = "25"

	// DefaultReportingCurrency is used when configuration supplies none.
	DefaultReportingCurrency = "ILS"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
