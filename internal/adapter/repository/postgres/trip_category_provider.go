package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgergen/internal/domain"
	"github.com/iho/ledgergen/internal/usecase"
)

// tableByCategory maps each trip expense category to its extension table.
// Each table denormalizes the core date/currency/employee columns next to
// the category-specific fields, which is why core updates must flow
// through the provider.
var tableByCategory = map[domain.TripCategory]string{
	domain.TripCategoryFlight:        "trip_flight_details",
	domain.TripCategoryAccommodation: "trip_accommodation_details",
	domain.TripCategorySubsistence:   "trip_subsistence_details",
	domain.TripCategoryOther:         "trip_other_details",
	domain.TripCategoryCarRental:     "trip_car_rental_details",
}

// TripCategoryProvider implements usecase.TripCategoryProvider for one
// expense category, writing to that category's extension table.
type TripCategoryProvider struct {
	pool     *pgxpool.Pool
	category domain.TripCategory
	table    string
}

// NewTripCategoryProvider creates a provider for the given category.
func NewTripCategoryProvider(pool *pgxpool.Pool, category domain.TripCategory) (*TripCategoryProvider, error) {
	table, ok := tableByCategory[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTripCategoryMismatch, category)
	}

	return &TripCategoryProvider{
		pool:     pool,
		category: category,
		table:    table,
	}, nil
}

// NewTripCategoryProviders creates one provider per known category.
func NewTripCategoryProviders(pool *pgxpool.Pool) []usecase.TripCategoryProvider {
	providers := make([]usecase.TripCategoryProvider, 0, len(tableByCategory))
	for category := range tableByCategory {
		provider, _ := NewTripCategoryProvider(pool, category)
		providers = append(providers, provider)
	}
	return providers
}

// Category returns the category this provider persists.
func (p *TripCategoryProvider) Category() domain.TripCategory {
	return p.category
}

// Upsert writes the category-specific fields inside the given transaction.
func (p *TripCategoryProvider) Upsert(ctx context.Context, tx usecase.Transaction, ext *domain.TripExpenseExtension) error {
	if ext.Category != p.category {
		return fmt.Errorf("%w: provider %s got %s", domain.ErrTripCategoryMismatch, p.category, ext.Category)
	}

	pgxTx := tx.(*Tx).PgxTx()

	query := fmt.Sprintf(`
		INSERT INTO %s (expense_id, fields)
		VALUES ($1, $2)
		ON CONFLICT (expense_id) DO UPDATE SET fields = EXCLUDED.fields
	`, p.table)

	_, err := pgxTx.Exec(ctx, query, ext.ExpenseID, ext.Fields)

	return err
}

// UpdateCore propagates changed core fields into the extension table's
// denormalized columns inside the given transaction.
func (p *TripCategoryProvider) UpdateCore(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := fmt.Sprintf(`
		UPDATE %s
		SET expense_date = $2,
		    value_date = $3,
		    currency = $4,
		    employee_business_id = $5
		WHERE expense_id = $1
	`, p.table)

	_, err := pgxTx.Exec(ctx, query,
		expense.ID,
		timeToPgDate(expense.Date),
		timeToPgDate(expense.ValueDate),
		expense.Currency,
		expense.EmployeeBusinessID,
	)

	return err
}
