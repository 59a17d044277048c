package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
)

// RateRepository implements usecase.RateProvider against the official
// daily rate table.
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

const getRate = `
SELECT rate
FROM exchange_rates
WHERE currency = $1 AND rate_date <= $2
ORDER BY rate_date DESC
LIMIT 1
`

// Rate returns the official rate for the currency on the given value
// date. Dates without a published rate fall back to the most recent
// earlier one; a currency with no rate at all is ErrRateNotFound.
func (r *RateRepository) Rate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	var rate pgtype.Numeric

	err := r.pool.QueryRow(ctx, getRate, currency, timeToPgDate(date)).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrRateNotFound
		}

		return decimal.Zero, err
	}

	return numericToDecimal(rate), nil
}
