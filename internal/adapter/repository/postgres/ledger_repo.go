package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgergen/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool, retrier *Retrier) *LedgerRepository {
	return &LedgerRepository{pool: pool, retrier: retrier}
}

const insertLedgerRecord = `
INSERT INTO ledger_records (
	id, owner_id, charge_id, invoice_date, value_date, currency,
	credit_account_1, debit_account_1, credit_account_2, debit_account_2,
	credit_amount_1, debit_amount_1, credit_amount_2, debit_amount_2,
	local_credit_amount_1, local_debit_amount_1,
	local_credit_amount_2, local_debit_amount_2,
	currency_rate, description, reference_1, is_creditor_counterparty
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
	$15, $16, $17, $18, $19, $20, $21, $22
)
ON CONFLICT (id) DO NOTHING
`

// InsertIfNotExists inserts records keyed by id in one batch, skipping
// ids already present, and returns the full ordered id set. Re-running
// generation for a charge is therefore a no-op.
func (r *LedgerRepository) InsertIfNotExists(ctx context.Context, records []*domain.LedgerRecord) ([]string, error) {
	batch := &pgx.Batch{}
	ids := make([]string, 0, len(records))

	for _, record := range records {
		ids = append(ids, record.ID)
		batch.Queue(insertLedgerRecord,
			record.ID,
			record.OwnerID,
			record.ChargeID,
			timeToPgDate(record.InvoiceDate),
			timeToPgDate(record.ValueDate),
			record.Currency,
			record.CreditAccountID1,
			record.DebitAccountID1,
			record.CreditAccountID2,
			record.DebitAccountID2,
			decimalPtrToNumeric(record.CreditAmount1),
			decimalPtrToNumeric(record.DebitAmount1),
			decimalPtrToNumeric(record.CreditAmount2),
			decimalPtrToNumeric(record.DebitAmount2),
			decimalToNumeric(record.LocalCurrencyCreditAmount1),
			decimalToNumeric(record.LocalCurrencyDebitAmount1),
			decimalToNumeric(record.LocalCurrencyCreditAmount2),
			decimalToNumeric(record.LocalCurrencyDebitAmount2),
			decimalPtrToNumeric(record.CurrencyRate),
			record.Description,
			record.Reference1,
			record.IsCreditorCounterparty,
		)
	}

	err := r.retrier.Retry(ctx, func() error {
		results := r.pool.SendBatch(ctx, batch)

		for range records {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return err
			}
		}

		return results.Close()
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

const listLedgerRecordsByCharge = `
SELECT id, owner_id, charge_id, invoice_date, value_date, currency,
       credit_account_1, debit_account_1, credit_account_2, debit_account_2,
       credit_amount_1, debit_amount_1, credit_amount_2, debit_amount_2,
       local_credit_amount_1, local_debit_amount_1,
       local_credit_amount_2, local_debit_amount_2,
       currency_rate, description, reference_1, is_creditor_counterparty
FROM ledger_records
WHERE charge_id = $1
ORDER BY seq
`

// ListByCharge lists a charge's stored records in insertion order.
func (r *LedgerRepository) ListByCharge(ctx context.Context, chargeID string) ([]*domain.LedgerRecord, error) {
	rows, err := r.pool.Query(ctx, listLedgerRecordsByCharge, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.LedgerRecord
	for rows.Next() {
		record, err := scanLedgerRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanLedgerRecord(row pgx.Row) (*domain.LedgerRecord, error) {
	var (
		record      domain.LedgerRecord
		invoiceDate pgtype.Date
		valueDate   pgtype.Date

		creditAmount1, debitAmount1 pgtype.Numeric
		creditAmount2, debitAmount2 pgtype.Numeric

		localCredit1, localDebit1 pgtype.Numeric
		localCredit2, localDebit2 pgtype.Numeric

		rate pgtype.Numeric
	)

	err := row.Scan(
		&record.ID,
		&record.OwnerID,
		&record.ChargeID,
		&invoiceDate,
		&valueDate,
		&record.Currency,
		&record.CreditAccountID1,
		&record.DebitAccountID1,
		&record.CreditAccountID2,
		&record.DebitAccountID2,
		&creditAmount1,
		&debitAmount1,
		&creditAmount2,
		&debitAmount2,
		&localCredit1,
		&localDebit1,
		&localCredit2,
		&localDebit2,
		&rate,
		&record.Description,
		&record.Reference1,
		&record.IsCreditorCounterparty,
	)
	if err != nil {
		return nil, err
	}

	record.InvoiceDate = invoiceDate.Time
	record.ValueDate = valueDate.Time

	record.CreditAmount1 = numericToDecimalPtr(creditAmount1)
	record.DebitAmount1 = numericToDecimalPtr(debitAmount1)
	record.CreditAmount2 = numericToDecimalPtr(creditAmount2)
	record.DebitAmount2 = numericToDecimalPtr(debitAmount2)

	record.LocalCurrencyCreditAmount1 = numericToDecimal(localCredit1)
	record.LocalCurrencyDebitAmount1 = numericToDecimal(localDebit1)
	record.LocalCurrencyCreditAmount2 = numericToDecimal(localCredit2)
	record.LocalCurrencyDebitAmount2 = numericToDecimal(localDebit2)

	record.CurrencyRate = numericToDecimalPtr(rate)

	return &record, nil
}
