package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
)

// TripBuilder ledgers business-trip charges: one record per categorized
// expense against the category's tax account, one per bank movement, and
// a reconciliation check that the expenses account for the movement.
type TripBuilder struct {
	converter *Converter
	resolver  AccountResolver
}

// NewTripBuilder creates a new TripBuilder.
func NewTripBuilder(converter *Converter, resolver AccountResolver) *TripBuilder {
	return &TripBuilder{
		converter: converter,
		resolver:  resolver,
	}
}

// Build produces draft records for a business-trip charge. The expense
// total must reconcile with the main transaction total within tolerance;
// fee transactions are exempt from that check and netted in separately,
// with direction flipped when the fee itself is a refund.
func (b *TripBuilder) Build(ctx context.Context, bundle *ChargeBundle, tracker *BalanceTracker) (*BuildResult, error) {
	charge := bundle.Charge
	result := &BuildResult{}

	expenseTotal := decimal.Zero
	for _, expense := range bundle.TripExpenses {
		local, err := b.buildExpense(ctx, charge, expense, tracker, result)
		if err != nil {
			result.collect("expense %s: %v", expense.ID, err)
			continue
		}
		expenseTotal = expenseTotal.Add(local)
	}

	transactionTotal := decimal.Zero
	for _, tx := range bundle.Transactions {
		local, err := b.buildTransaction(ctx, charge, tx, tracker, result)
		if err != nil {
			result.collect("transaction %s: %v", tx.ID, err)
			continue
		}
		if !tx.IsFee {
			// Refunded movements net against the total rather than
			// inflating it.
			if tx.IsDebit() {
				transactionTotal = transactionTotal.Add(local)
			} else {
				transactionTotal = transactionTotal.Sub(local)
			}
		}
	}

	// Only compare when both sides built cleanly; collected errors
	// already explain any gap.
	if len(result.Errors) == 0 {
		tolerance := decimal.RequireFromString(BalanceTolerance)
		if expenseTotal.Sub(transactionTotal).Abs().GreaterThan(tolerance) {
			return nil, fmt.Errorf("%w: expenses %s, transactions %s",
				domain.ErrTripAmountMismatch, expenseTotal, transactionTotal)
		}
	}

	return result, nil
}

// buildExpense books one categorized expense against the travelling
// employee. Returns the local amount for reconciliation.
func (b *TripBuilder) buildExpense(ctx context.Context, charge *domain.Charge, expense *domain.TripExpense, tracker *BalanceTracker, result *BuildResult) (decimal.Decimal, error) {
	if !expense.Category.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrTripCategoryMismatch, expense.Category)
	}

	if err := domain.ValidateCurrency(expense.Currency); err != nil {
		return decimal.Zero, err
	}

	if err := domain.ValidatePositiveAmount(expense.Amount); err != nil {
		return decimal.Zero, err
	}

	categoryAccount, err := b.resolver.Resolve(ctx, domain.TripTaxAccount(expense.Category), expense.Currency)
	if err != nil {
		return decimal.Zero, err
	}

	valueDate := expense.ValueDate
	if valueDate.IsZero() {
		valueDate = expense.Date
	}

	conv, err := b.converter.ToLocal(ctx, expense.Amount, expense.Currency, valueDate)
	if err != nil {
		return decimal.Zero, err
	}

	record := &domain.LedgerRecord{
		ID:               expense.ID,
		OwnerID:          charge.OwnerID,
		ChargeID:         charge.ID,
		InvoiceDate:      expense.Date,
		ValueDate:        valueDate,
		Currency:         expense.Currency,
		Description:      string(expense.Category),
		DebitAccountID1:  categoryAccount,
		CreditAccountID1: expense.EmployeeBusinessID,
	}
	applyConversion(record, conv)

	tracker.AddCredit(expense.EmployeeBusinessID, conv.Local)
	if record.IsForeign() {
		tracker.AllowUnbalanced(expense.EmployeeBusinessID)
	}

	result.add(record)

	return conv.Local, nil
}

// buildTransaction books a bank movement of the trip charge. Returns the
// local amount for reconciliation; fee movements are booked to the fee
// category instead of the employee, flipped when they are refunds.
func (b *TripBuilder) buildTransaction(ctx context.Context, charge *domain.Charge, tx *domain.Transaction, tracker *BalanceTracker, result *BuildResult) (decimal.Decimal, error) {
	if err := domain.ValidateCurrency(tx.Currency); err != nil {
		return decimal.Zero, err
	}

	conv, err := b.converter.ToLocal(ctx, tx.Amount.Abs(), tx.Currency, tx.DebitDate)
	if err != nil {
		return decimal.Zero, err
	}

	record := &domain.LedgerRecord{
		ID:          tx.ID,
		OwnerID:     charge.OwnerID,
		ChargeID:    charge.ID,
		InvoiceDate: tx.EventDate,
		ValueDate:   tx.DebitDate,
		Currency:    tx.Currency,
		Description: tx.SourceDescription,
		Reference1:  tx.SourceReference,
	}
	applyConversion(record, conv)

	if tx.IsFee {
		feeAccount, err := b.resolver.Resolve(ctx, domain.TaxAccountExchangeFees, tx.Currency)
		if err != nil {
			return decimal.Zero, err
		}

		if tx.IsDebit() {
			record.DebitAccountID1 = feeAccount
			record.CreditAccountID1 = tx.AccountID
		} else {
			// A refunded fee flips direction.
			record.CreditAccountID1 = feeAccount
			record.DebitAccountID1 = tx.AccountID
		}

		result.add(record)

		return conv.Local, nil
	}

	counterparty := tx.BusinessID
	if counterparty == "" {
		counterparty = charge.TaxCategoryID
	}

	if tx.IsDebit() {
		record.DebitAccountID1 = counterparty
		record.CreditAccountID1 = tx.AccountID
	} else {
		record.CreditAccountID1 = counterparty
		record.DebitAccountID1 = tx.AccountID
	}

	if tx.BusinessID != "" {
		if tx.IsDebit() {
			tracker.AddDebit(tx.BusinessID, conv.Local)
		} else {
			tracker.AddCredit(tx.BusinessID, conv.Local)
		}

		if record.IsForeign() {
			tracker.AllowUnbalanced(tx.BusinessID)
		}
	}

	result.add(record)

	return conv.Local, nil
}
