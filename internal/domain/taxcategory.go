package domain

// TaxAccount names an internal counter-account used for taxes, fees and
// routing. The account resolver maps a TaxAccount plus currency to a
// concrete internal account id.
type TaxAccount string

const (
	TaxAccountInputVAT        TaxAccount = "INPUT_VAT"
	TaxAccountOutputVAT       TaxAccount = "OUTPUT_VAT"
	TaxAccountExchangeFees    TaxAccount = "EXCHANGE_FEES"
	TaxAccountExchangeRouting TaxAccount = "EXCHANGE_ROUTING"
	TaxAccountWithholdingTax  TaxAccount = "WITHHOLDING_TAX"
	TaxAccountDividends       TaxAccount = "DIVIDENDS"
)

// TripTaxAccount returns the internal account for a trip expense category.
func TripTaxAccount(c TripCategory) TaxAccount {
	return TaxAccount("BUSINESS_TRIP_" + string(c))
}
