package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgergen/internal/domain"
)

// ChargeRepository implements usecase.ChargeRepository.
type ChargeRepository struct {
	pool *pgxpool.Pool
}

// NewChargeRepository creates a new ChargeRepository.
func NewChargeRepository(pool *pgxpool.Pool) *ChargeRepository {
	return &ChargeRepository{pool: pool}
}

const getChargeByID = `
SELECT id, owner_id, tax_category_id, charge_type, created_at
FROM charges
WHERE id = $1
`

// GetByID retrieves a charge by ID.
func (r *ChargeRepository) GetByID(ctx context.Context, id string) (*domain.Charge, error) {
	row := r.pool.QueryRow(ctx, getChargeByID, id)

	charge, err := scanCharge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChargeNotFound
		}

		return nil, err
	}

	return charge, nil
}

const listChargesByOwner = `
SELECT id, owner_id, tax_category_id, charge_type, created_at
FROM charges
WHERE owner_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

// ListByOwner lists an owner's charges with pagination.
func (r *ChargeRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Charge, error) {
	rows, err := r.pool.Query(ctx, listChargesByOwner, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*domain.Charge
	for rows.Next() {
		charge, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}

	return charges, rows.Err()
}

func scanCharge(row pgx.Row) (*domain.Charge, error) {
	var charge domain.Charge
	err := row.Scan(
		&charge.ID,
		&charge.OwnerID,
		&charge.TaxCategoryID,
		&charge.Type,
		&charge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &charge, nil
}
