package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgergen/internal/domain"
)

// DocumentRepository implements usecase.DocumentRepository.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

const listDocumentsByCharge = `
SELECT id, charge_id, document_type, document_date, debtor_id, creditor_id,
       currency, serial_number, total_amount, vat_amount
FROM documents
WHERE charge_id = $1
ORDER BY document_date, id
`

// ListByCharge lists the commercial documents linked to a charge.
// Nullable upstream fields stay nil so the builders can reject the
// document instead of booking a zero amount.
func (r *DocumentRepository) ListByCharge(ctx context.Context, chargeID string) ([]*domain.Document, error) {
	rows, err := r.pool.Query(ctx, listDocumentsByCharge, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*domain.Document
	for rows.Next() {
		var (
			doc       domain.Document
			docDate   pgtype.Date
			total     pgtype.Numeric
			vatAmount pgtype.Numeric
		)

		err := rows.Scan(
			&doc.ID,
			&doc.ChargeID,
			&doc.Type,
			&docDate,
			&doc.DebtorID,
			&doc.CreditorID,
			&doc.Currency,
			&doc.SerialNumber,
			&total,
			&vatAmount,
		)
		if err != nil {
			return nil, err
		}

		if docDate.Valid {
			date := docDate.Time
			doc.Date = &date
		}
		doc.TotalAmount = numericToDecimalPtr(total)
		doc.VATAmount = numericToDecimal(vatAmount)

		documents = append(documents, &doc)
	}

	return documents, rows.Err()
}
