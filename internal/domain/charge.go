package domain

import "time"

// ChargeType selects the entry builder used to ledger a charge.
type ChargeType string

const (
	ChargeTypeCommon       ChargeType = "COMMON"
	ChargeTypeConversion   ChargeType = "CONVERSION"
	ChargeTypeDividend     ChargeType = "DIVIDEND"
	ChargeTypeBusinessTrip ChargeType = "BUSINESS_TRIP"
)

// Valid reports whether the charge type is one of the known variants.
func (t ChargeType) Valid() bool {
	switch t {
	case ChargeTypeCommon, ChargeTypeConversion, ChargeTypeDividend, ChargeTypeBusinessTrip:
		return true
	}
	return false
}

// Charge is a logical grouping of source financial records that together
// represent one bookkeeping event.
type Charge struct {
	CreatedAt time.Time
	ID        string
	OwnerID   string
	// TaxCategoryID is the business tax category the charge's expense
	// side is booked against, resolved by the matching layer upstream.
	TaxCategoryID string
	Type          ChargeType
}
