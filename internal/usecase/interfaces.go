package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
)

// ChargeRepository defines data access for charges.
type ChargeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Charge, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Charge, error)
}

// TransactionRepository defines data access for source transactions.
type TransactionRepository interface {
	ListByCharge(ctx context.Context, chargeID string) ([]*domain.Transaction, error)
}

// DocumentRepository defines data access for source documents.
type DocumentRepository interface {
	ListByCharge(ctx context.Context, chargeID string) ([]*domain.Document, error)
}

// DividendRepository defines data access for dividend payout rows.
type DividendRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Dividend, error)
}

// TripRepository defines data access for business-trip expenses.
type TripRepository interface {
	GetExpense(ctx context.Context, id string) (*domain.TripExpense, error)
	ListExpensesByCharge(ctx context.Context, chargeID string) ([]*domain.TripExpense, error)
	CreateExpense(ctx context.Context, tx Transaction, expense *domain.TripExpense) error
	UpdateExpenseCore(ctx context.Context, tx Transaction, expense *domain.TripExpense) error
}

// TripCategoryProvider persists the category-specific half of a trip
// expense. The core row and the extension are always written together,
// inside the same transaction.
type TripCategoryProvider interface {
	Category() domain.TripCategory
	Upsert(ctx context.Context, tx Transaction, ext *domain.TripExpenseExtension) error
	UpdateCore(ctx context.Context, tx Transaction, expense *domain.TripExpense) error
}

// LedgerRepository persists generated ledger records.
type LedgerRepository interface {
	// InsertIfNotExists inserts records keyed by id, skipping ids that
	// already exist, and returns the full ordered id set.
	InsertIfNotExists(ctx context.Context, records []*domain.LedgerRecord) ([]string, error)
	ListByCharge(ctx context.Context, chargeID string) ([]*domain.LedgerRecord, error)
}

// RateProvider looks up the historical exchange rate from a currency to
// the reporting currency for a value date.
type RateProvider interface {
	Rate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error)
}

// AccountResolver maps an internal tax account plus currency to a
// concrete account id.
type AccountResolver interface {
	Resolve(ctx context.Context, account domain.TaxAccount, currency string) (string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
