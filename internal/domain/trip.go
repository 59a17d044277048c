package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripCategory classifies a business-trip expense. Every expense belongs
// to exactly one category, each with its own extension record of
// category-specific fields.
type TripCategory string

const (
	TripCategoryFlight        TripCategory = "FLIGHT"
	TripCategoryAccommodation TripCategory = "ACCOMMODATION"
	TripCategorySubsistence   TripCategory = "TRAVEL_AND_SUBSISTENCE"
	TripCategoryOther         TripCategory = "OTHER"
	TripCategoryCarRental     TripCategory = "CAR_RENTAL"
)

// Valid reports whether the category is one of the known variants.
func (c TripCategory) Valid() bool {
	switch c {
	case TripCategoryFlight, TripCategoryAccommodation, TripCategorySubsistence,
		TripCategoryOther, TripCategoryCarRental:
		return true
	}
	return false
}

// BusinessTrip groups the expenses of one trip.
type BusinessTrip struct {
	FromDate time.Time
	ToDate   time.Time
	ID       string
	OwnerID  string
	Name     string
}

// TripExpense is the core row shared by every expense category.
type TripExpense struct {
	Date      time.Time
	ValueDate time.Time

	ID     string
	TripID string
	// ChargeID is set once the expense has been matched to a charge.
	ChargeID string
	Currency string
	// EmployeeBusinessID identifies the travelling employee.
	EmployeeBusinessID string

	Amount decimal.Decimal

	Category TripCategory

	// PaidByEmployee marks expenses fronted by the employee; only those
	// allow core-field updates to flow into the category extension.
	PaidByEmployee bool
}

// TripExpenseExtension is the category-specific half of an expense.
// Its concrete fields differ per category and live in the category's
// own table; the engine only needs the pairing identity.
type TripExpenseExtension struct {
	ExpenseID string
	Category  TripCategory
	// Fields carries the category-specific columns as resolved by the
	// category provider. Keys are column names.
	Fields map[string]any
}
