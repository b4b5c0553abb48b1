package exchange

import "github.com/shopspring/decimal"

// AmountToPrecision truncates an amount to the market's accepted number
// of decimal digits, formatted the way the exchange expects.
func AmountToPrecision(amount float64, digits int) string {
	return decimal.NewFromFloat(amount).Truncate(int32(digits)).String()
}

// PriceToPrecision truncates a price to the market's accepted number of
// decimal digits.
func PriceToPrecision(price float64, digits int) string {
	return decimal.NewFromFloat(price).Truncate(int32(digits)).String()
}

// MinFromPrecision returns 10^-digits, the smallest representable
// increment for a field with the given digit count.
func MinFromPrecision(digits int) float64 {
	v, _ := decimal.New(1, int32(-digits)).Float64()
	return v
}
