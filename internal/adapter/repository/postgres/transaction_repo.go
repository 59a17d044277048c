package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgergen/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const listTransactionsByCharge = `
SELECT id, charge_id, event_date, debit_date, amount, currency,
       account_id, business_id, source_description, source_reference, is_fee
FROM transactions
WHERE charge_id = $1
ORDER BY debit_date, id
`

// ListByCharge lists the bank movements linked to a charge.
func (r *TransactionRepository) ListByCharge(ctx context.Context, chargeID string) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, listTransactionsByCharge, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var (
			tx        domain.Transaction
			eventDate pgtype.Date
			debitDate pgtype.Date
			amount    pgtype.Numeric
		)

		err := rows.Scan(
			&tx.ID,
			&tx.ChargeID,
			&eventDate,
			&debitDate,
			&amount,
			&tx.Currency,
			&tx.AccountID,
			&tx.BusinessID,
			&tx.SourceDescription,
			&tx.SourceReference,
			&tx.IsFee,
		)
		if err != nil {
			return nil, err
		}

		tx.EventDate = eventDate.Time
		tx.DebitDate = debitDate.Time
		tx.Amount = numericToDecimal(amount)

		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}
