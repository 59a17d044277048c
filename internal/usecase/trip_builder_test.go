package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgergen/internal/domain"
	"github.com/iho/ledgergen/internal/usecase"
	"github.com/iho/ledgergen/internal/usecase/mocks"
)

func tripBundle(expenses []*domain.TripExpense, transactions ...*domain.Transaction) *usecase.ChargeBundle {
	return &usecase.ChargeBundle{
		Charge: &domain.Charge{
			ID:            "charge-trip",
			OwnerID:       "owner-1",
			TaxCategoryID: "expense:travel",
			Type:          domain.ChargeTypeBusinessTrip,
		},
		Transactions: transactions,
		TripExpenses: expenses,
	}
}

func newTripBuilder(rates map[string]string) *usecase.TripBuilder {
	return usecase.NewTripBuilder(newTestConverter(rates), mocks.NewMockAccountResolver())
}

func TestTripBuilder_ExpensesReimbursedToEmployee(t *testing.T) {
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	expenses := []*domain.TripExpense{
		{
			ID:                 "exp-flight",
			EmployeeBusinessID: "employee-1",
			Category:           domain.TripCategoryFlight,
			Date:               day,
			Currency:           "ILS",
			Amount:             decimal.NewFromInt(1200),
		},
		{
			ID:                 "exp-hotel",
			EmployeeBusinessID: "employee-1",
			Category:           domain.TripCategoryAccommodation,
			Date:               day,
			Currency:           "ILS",
			Amount:             decimal.NewFromInt(800),
		},
	}

	reimbursement := &domain.Transaction{
		ID:         "tx-reimburse",
		ChargeID:   "charge-trip",
		EventDate:  day,
		DebitDate:  day,
		Amount:     decimal.NewFromInt(-2000),
		Currency:   "ILS",
		AccountID:  "bank-1",
		BusinessID: "employee-1",
	}

	tracker := usecase.NewBalanceTracker()
	result, err := newTripBuilder(nil).Build(context.Background(), tripBundle(expenses, reimbursement), tracker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}

	flight := result.Records[0]
	if flight.DebitAccountID1 != "BUSINESS_TRIP_FLIGHT" {
		t.Errorf("expected the flight category account, got %s", flight.DebitAccountID1)
	}
	if flight.CreditAccountID1 != "employee-1" {
		t.Errorf("expense must credit the employee, got %s", flight.CreditAccountID1)
	}

	payout := result.Records[2]
	if payout.DebitAccountID1 != "employee-1" || payout.CreditAccountID1 != "bank-1" {
		t.Errorf("reimbursement sides wrong: Dr %s / Cr %s", payout.DebitAccountID1, payout.CreditAccountID1)
	}

	// Employee: +1200 +800 -2000.
	if verdict := tracker.Verdict(); !verdict.IsBalanced {
		t.Errorf("expected balanced trip charge, residuals %v", verdict.Diffs)
	}
}

func TestTripBuilder_AmountMismatchFatal(t *testing.T) {
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	expenses := []*domain.TripExpense{{
		ID:                 "exp-flight",
		EmployeeBusinessID: "employee-1",
		Category:           domain.TripCategoryFlight,
		Date:               day,
		Currency:           "ILS",
		Amount:             decimal.NewFromInt(1200),
	}}

	tx := &domain.Transaction{
		ID:         "tx-reimburse",
		ChargeID:   "charge-trip",
		EventDate:  day,
		DebitDate:  day,
		Amount:     decimal.NewFromInt(-1500),
		Currency:   "ILS",
		AccountID:  "bank-1",
		BusinessID: "employee-1",
	}

	result, err := newTripBuilder(nil).Build(context.Background(), tripBundle(expenses, tx), usecase.NewBalanceTracker())
	if !errors.Is(err, domain.ErrTripAmountMismatch) {
		t.Fatalf("expected ErrTripAmountMismatch, got %v", err)
	}
	if result != nil {
		t.Error("mismatch must not yield partial records")
	}
}

func TestTripBuilder_CollectedErrorsSuppressReconciliation(t *testing.T) {
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	expenses := []*domain.TripExpense{
		{
			ID:                 "exp-good",
			EmployeeBusinessID: "employee-1",
			Category:           domain.TripCategoryFlight,
			Date:               day,
			Currency:           "ILS",
			Amount:             decimal.NewFromInt(1200),
		},
		{
			ID:                 "exp-bad",
			EmployeeBusinessID: "employee-1",
			Category:           domain.TripCategory("SOUVENIRS"),
			Date:               day,
			Currency:           "ILS",
			Amount:             decimal.NewFromInt(300),
		},
	}

	tx := &domain.Transaction{
		ID:         "tx-reimburse",
		ChargeID:   "charge-trip",
		EventDate:  day,
		DebitDate:  day,
		Amount:     decimal.NewFromInt(-1500),
		Currency:   "ILS",
		AccountID:  "bank-1",
		BusinessID: "employee-1",
	}

	// The gap comes from the rejected expense, so no mismatch error on top.
	result, err := newTripBuilder(nil).Build(context.Background(), tripBundle(expenses, tx), usecase.NewBalanceTracker())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected good expense + transaction, got %d records", len(result.Records))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 collected error, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "exp-bad") {
		t.Errorf("collected error should name the expense: %s", result.Errors[0])
	}
}

func TestTripBuilder_ForeignExpense(t *testing.T) {
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	expenses := []*domain.TripExpense{{
		ID:                 "exp-hotel",
		EmployeeBusinessID: "employee-1",
		Category:           domain.TripCategoryAccommodation,
		Date:               day,
		ValueDate:          day,
		Currency:           "EUR",
		Amount:             decimal.NewFromInt(100),
	}}

	tx := &domain.Transaction{
		ID:         "tx-reimburse",
		ChargeID:   "charge-trip",
		EventDate:  day,
		DebitDate:  day,
		Amount:     decimal.NewFromInt(-400),
		Currency:   "ILS",
		AccountID:  "bank-1",
		BusinessID: "employee-1",
	}

	tracker := usecase.NewBalanceTracker()
	result, err := newTripBuilder(map[string]string{"EUR": "4.00"}).Build(context.Background(), tripBundle(expenses, tx), tracker)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := result.Records[0]
	if record.CreditAmount1 == nil || !record.CreditAmount1.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected foreign amount 100, got %v", record.CreditAmount1)
	}
	if !record.LocalCurrencyCreditAmount1.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected local 400, got %s", record.LocalCurrencyCreditAmount1)
	}
	if record.CurrencyRate == nil {
		t.Error("expected the conversion rate recorded")
	}
}

func TestTripBuilder_FeeAndRefund(t *testing.T) {
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	fee := &domain.Transaction{
		ID:        "tx-fee",
		ChargeID:  "charge-trip",
		EventDate: day,
		DebitDate: day,
		Amount:    decimal.NewFromInt(-15),
		Currency:  "ILS",
		AccountID: "bank-1",
		IsFee:     true,
	}
	refund := &domain.Transaction{
		ID:        "tx-fee-refund",
		ChargeID:  "charge-trip",
		EventDate: day,
		DebitDate: day,
		Amount:    decimal.NewFromInt(15),
		Currency:  "ILS",
		AccountID: "bank-1",
		IsFee:     true,
	}

	result, err := newTripBuilder(nil).Build(context.Background(), tripBundle(nil, fee, refund), usecase.NewBalanceTracker())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	charged := result.Records[0]
	if charged.DebitAccountID1 != "EXCHANGE_FEES" || charged.CreditAccountID1 != "bank-1" {
		t.Errorf("fee sides wrong: Dr %s / Cr %s", charged.DebitAccountID1, charged.CreditAccountID1)
	}

	refunded := result.Records[1]
	if refunded.CreditAccountID1 != "EXCHANGE_FEES" || refunded.DebitAccountID1 != "bank-1" {
		t.Errorf("refunded fee must flip sides: Dr %s / Cr %s", refunded.DebitAccountID1, refunded.CreditAccountID1)
	}
}

func TestTripBuilder_RefundNetsAgainstTransactionTotal(t *testing.T) {
	day := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	expenses := []*domain.TripExpense{{
		ID:                 "exp-hotel",
		EmployeeBusinessID: "employee-1",
		Category:           domain.TripCategoryAccommodation,
		Date:               day,
		Currency:           "ILS",
		Amount:             decimal.NewFromInt(800),
	}}

	// The hotel charged 1000 and later refunded 200; the expense rows
	// only carry the 800 actually spent, so the movements must net.
	payment := &domain.Transaction{
		ID:         "tx-hotel",
		ChargeID:   "charge-trip",
		EventDate:  day,
		DebitDate:  day,
		Amount:     decimal.NewFromInt(-1000),
		Currency:   "ILS",
		AccountID:  "bank-1",
		BusinessID: "employee-1",
	}
	refund := &domain.Transaction{
		ID:         "tx-hotel-refund",
		ChargeID:   "charge-trip",
		EventDate:  day,
		DebitDate:  day,
		Amount:     decimal.NewFromInt(200),
		Currency:   "ILS",
		AccountID:  "bank-1",
		BusinessID: "employee-1",
	}

	tracker := usecase.NewBalanceTracker()
	result, err := newTripBuilder(nil).Build(context.Background(), tripBundle(expenses, payment, refund), tracker)
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Empty(t, result.Errors)

	refunded := result.Records[2]
	assert.Equal(t, "employee-1", refunded.CreditAccountID1)
	assert.Equal(t, "bank-1", refunded.DebitAccountID1)

	verdict := tracker.Verdict()
	assert.True(t, verdict.IsBalanced, "residuals %v", verdict.Diffs)
}
