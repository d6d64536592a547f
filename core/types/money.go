// Package types - Billing catalog records
package types

import "github.com/shopspring/decimal"

// Currency represents an ISO-4217 currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// DefaultChargeCurrency is used when a charge carries no currency
const DefaultChargeCurrency = CurrencyUSD

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

func init() {
	// Prices render as JSON numbers, matching the billing API's own output.
	decimal.MarshalJSONWithoutQuotes = true
}

// MinorToMajor converts a minor-unit amount (cents) to major units.
// The conversion is exact: 1000 becomes 10.
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
