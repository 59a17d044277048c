package domain

import "errors"

var (
	// Record errors
	ErrMissingRecordID = errors.New("ledger record has no id")
	ErrMissingChargeID = errors.New("ledger record has no charge id")
	ErrEmptyRecordSlot = errors.New("ledger record has no accounts in slot 1")

	// Charge errors
	ErrChargeNotFound        = errors.New("charge not found")
	ErrUnsupportedChargeType = errors.New("unsupported charge type")

	// Exchange errors
	ErrRateNotFound = errors.New("no exchange rate for date")

	// Conversion charge errors
	ErrConversionLegCount = errors.New("conversion charge must include two main transactions")
	ErrConversionLegSign  = errors.New("conversion charge must include two main transactions with opposite sign")

	// Dividend charge errors
	ErrDividendNotMatched     = errors.New("payment transaction has no matching dividend record")
	ErrDividendAmountInvalid  = errors.New("dividend amount must be positive")
	ErrPaymentAmountInvalid   = errors.New("dividend payment transaction amount must be negative")
	ErrDividendLocalImbalance = errors.New("dividend legs do not balance in local currency")

	// Business trip errors
	ErrTripCategoryMismatch = errors.New("expense category does not match its extension")
	ErrTripAmountMismatch   = errors.New("trip expenses do not reconcile with transaction amount")
	ErrTripExpenseImmutable = errors.New("expense core fields are immutable unless paid by employee")
	ErrTripExpenseNotFound  = errors.New("trip expense not found")
)
