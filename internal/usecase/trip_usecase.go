package usecase

import (
	"context"
	"fmt"

	"github.com/iho/ledgergen/internal/domain"
)

// TripExpenseUseCase maintains business-trip expenses. The core expense
// row and its category extension are always written together, inside one
// transaction; a missing provider for the expense's category is a
// configuration error.
type TripExpenseUseCase struct {
	txManager TransactionManager
	tripRepo  TripRepository
	providers map[domain.TripCategory]TripCategoryProvider
	idGen     IDGenerator
}

// NewTripExpenseUseCase creates a new TripExpenseUseCase.
func NewTripExpenseUseCase(txManager TransactionManager, tripRepo TripRepository, providers []TripCategoryProvider, idGen IDGenerator) *TripExpenseUseCase {
	byCategory := make(map[domain.TripCategory]TripCategoryProvider, len(providers))
	for _, p := range providers {
		byCategory[p.Category()] = p
	}

	return &TripExpenseUseCase{
		txManager: txManager,
		tripRepo:  tripRepo,
		providers: byCategory,
		idGen:     idGen,
	}
}

// CreateExpenseInput represents input for creating a trip expense.
type CreateExpenseInput struct {
	Expense   *domain.TripExpense
	Extension map[string]any
}

// CreateExpense creates the core row and the category extension together.
func (uc *TripExpenseUseCase) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.TripExpense, error) {
	expense := input.Expense

	if !expense.Category.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrTripCategoryMismatch, expense.Category)
	}

	provider, ok := uc.providers[expense.Category]
	if !ok {
		return nil, fmt.Errorf("%w: no provider for %s", domain.ErrTripCategoryMismatch, expense.Category)
	}

	if expense.ID == "" {
		expense.ID = uc.idGen.Generate()
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.tripRepo.CreateExpense(ctx, tx, expense); err != nil {
		return nil, err
	}

	ext := &domain.TripExpenseExtension{
		ExpenseID: expense.ID,
		Category:  expense.Category,
		Fields:    input.Extension,
	}
	if err := provider.Upsert(ctx, tx, ext); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpenseInput represents input for updating a trip expense.
type UpdateExpenseInput struct {
	Expense   *domain.TripExpense
	Extension map[string]any
	// CoreChanged marks that date, value date, currency or employee were
	// modified.
	CoreChanged bool
}

// UpdateExpense updates the core row and the extension together. Core
// field changes propagate to the category provider only for expenses
// paid by the employee; otherwise those fields are immutable here.
func (uc *TripExpenseUseCase) UpdateExpense(ctx context.Context, input UpdateExpenseInput) error {
	expense := input.Expense

	current, err := uc.tripRepo.GetExpense(ctx, expense.ID)
	if err != nil {
		return err
	}

	if current.Category != expense.Category {
		return domain.ErrTripCategoryMismatch
	}

	provider, ok := uc.providers[expense.Category]
	if !ok {
		return fmt.Errorf("%w: no provider for %s", domain.ErrTripCategoryMismatch, expense.Category)
	}

	if input.CoreChanged && !current.PaidByEmployee {
		return domain.ErrTripExpenseImmutable
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.tripRepo.UpdateExpenseCore(ctx, tx, expense); err != nil {
		return err
	}

	if input.CoreChanged {
		if err := provider.UpdateCore(ctx, tx, expense); err != nil {
			return err
		}
	}

	if input.Extension != nil {
		ext := &domain.TripExpenseExtension{
			ExpenseID: expense.ID,
			Category:  expense.Category,
			Fields:    input.Extension,
		}
		if err := provider.Upsert(ctx, tx, ext); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
