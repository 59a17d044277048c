package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Conversion is the result of translating an amount into the reporting
// currency. For an amount already in the reporting currency Foreign and
// Rate stay nil and Local equals the raw amount exactly.
type Conversion struct {
	Foreign *decimal.Decimal
	Rate    *decimal.Decimal
	Local   decimal.Decimal
}

// Converter translates amounts to the reporting currency using a
// historical rate source.
type Converter struct {
	provider  RateProvider
	reporting string
}

// NewConverter creates a new Converter.
func NewConverter(provider RateProvider, reportingCurrency string) *Converter {
	if reportingCurrency == "" {
		reportingCurrency = DefaultReportingCurrency
	}

	return &Converter{
		provider:  provider,
		reporting: reportingCurrency,
	}
}

// ReportingCurrency returns the currency all amounts are expressed in.
func (c *Converter) ReportingCurrency() string {
	return c.reporting
}

// ToLocal converts amount from currency to the reporting currency at the
// rate published for date. Local amounts are rounded to two decimal
// places; the raw foreign amount and the rate are carried for audit.
func (c *Converter) ToLocal(ctx context.Context, amount decimal.Decimal, currency string, date time.Time) (Conversion, error) {
	if currency == c.reporting {
		return Conversion{Local: amount}, nil
	}

	rate, err := c.provider.Rate(ctx, currency, date)
	if err != nil {
		return Conversion{}, fmt.Errorf("rate %s->%s at %s: %w", currency, c.reporting, date.Format(time.DateOnly), err)
	}

	local := amount.Mul(rate).Round(2)

	return Conversion{
		Foreign: &amount,
		Rate:    &rate,
		Local:   local,
	}, nil
}
