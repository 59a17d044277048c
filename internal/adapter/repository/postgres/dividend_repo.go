package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgergen/internal/domain"
)

// DividendRepository implements usecase.DividendRepository.
type DividendRepository struct {
	pool *pgxpool.Pool
}

// NewDividendRepository creates a new DividendRepository.
func NewDividendRepository(pool *pgxpool.Pool) *DividendRepository {
	return &DividendRepository{pool: pool}
}

const listDividendsByOwner = `
SELECT id, owner_id, business_id, transaction_id, payout_date, amount,
       withholding_tax_percentage
FROM dividends
WHERE owner_id = $1
ORDER BY payout_date, id
`

// ListByOwner lists an owner's declared dividend payout rows.
func (r *DividendRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Dividend, error) {
	rows, err := r.pool.Query(ctx, listDividendsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dividends []*domain.Dividend
	for rows.Next() {
		var (
			dividend   domain.Dividend
			payoutDate pgtype.Date
			amount     pgtype.Numeric
			pct        pgtype.Numeric
		)

		err := rows.Scan(
			&dividend.ID,
			&dividend.OwnerID,
			&dividend.BusinessID,
			&dividend.TransactionID,
			&payoutDate,
			&amount,
			&pct,
		)
		if err != nil {
			return nil, err
		}

		dividend.Date = payoutDate.Time
		dividend.Amount = numericToDecimal(amount)
		dividend.WithholdingTaxPercentage = numericToDecimalPtr(pct)

		dividends = append(dividends, &dividend)
	}

	return dividends, rows.Err()
}
