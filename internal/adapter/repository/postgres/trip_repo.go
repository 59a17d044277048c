package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgergen/internal/domain"
	"github.com/iho/ledgergen/internal/usecase"
)

// TripRepository implements usecase.TripRepository.
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

const getTripExpense = `
SELECT id, trip_id, charge_id, employee_business_id, category,
       expense_date, value_date, amount, currency, paid_by_employee
FROM trip_expenses
WHERE id = $1
`

// GetExpense retrieves a trip expense by ID.
func (r *TripRepository) GetExpense(ctx context.Context, id string) (*domain.TripExpense, error) {
	row := r.pool.QueryRow(ctx, getTripExpense, id)

	expense, err := scanTripExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripExpenseNotFound
		}

		return nil, err
	}

	return expense, nil
}

const listTripExpensesByCharge = `
SELECT id, trip_id, charge_id, employee_business_id, category,
       expense_date, value_date, amount, currency, paid_by_employee
FROM trip_expenses
WHERE charge_id = $1
ORDER BY expense_date, id
`

// ListExpensesByCharge lists the expenses matched to a charge.
func (r *TripRepository) ListExpensesByCharge(ctx context.Context, chargeID string) ([]*domain.TripExpense, error) {
	rows, err := r.pool.Query(ctx, listTripExpensesByCharge, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.TripExpense
	for rows.Next() {
		expense, err := scanTripExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

const createTripExpense = `
INSERT INTO trip_expenses (
	id, trip_id, charge_id, employee_business_id, category,
	expense_date, value_date, amount, currency, paid_by_employee
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// CreateExpense inserts the core expense row inside the given transaction.
func (r *TripRepository) CreateExpense(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createTripExpense,
		expense.ID,
		expense.TripID,
		nullableText(expense.ChargeID),
		expense.EmployeeBusinessID,
		string(expense.Category),
		timeToPgDate(expense.Date),
		timeToPgDate(expense.ValueDate),
		decimalToNumeric(expense.Amount),
		expense.Currency,
		expense.PaidByEmployee,
	)

	return err
}

const updateTripExpenseCore = `
UPDATE trip_expenses
SET employee_business_id = $2,
    expense_date = $3,
    value_date = $4,
    amount = $5,
    currency = $6,
    paid_by_employee = $7
WHERE id = $1
`

// UpdateExpenseCore updates the shared expense fields inside the given
// transaction. The category is immutable.
func (r *TripRepository) UpdateExpenseCore(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, updateTripExpenseCore,
		expense.ID,
		expense.EmployeeBusinessID,
		timeToPgDate(expense.Date),
		timeToPgDate(expense.ValueDate),
		decimalToNumeric(expense.Amount),
		expense.Currency,
		expense.PaidByEmployee,
	)

	return err
}

func scanTripExpense(row pgx.Row) (*domain.TripExpense, error) {
	var (
		expense     domain.TripExpense
		chargeID    pgtype.Text
		expenseDate pgtype.Date
		valueDate   pgtype.Date
		amount      pgtype.Numeric
	)

	err := row.Scan(
		&expense.ID,
		&expense.TripID,
		&chargeID,
		&expense.EmployeeBusinessID,
		&expense.Category,
		&expenseDate,
		&valueDate,
		&amount,
		&expense.Currency,
		&expense.PaidByEmployee,
	)
	if err != nil {
		return nil, err
	}

	expense.ChargeID = chargeID.String
	expense.Date = expenseDate.Time
	expense.ValueDate = valueDate.Time
	expense.Amount = numericToDecimal(amount)

	return &expense, nil
}

func nullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
