package checkout

import "github.com/shopspring/decimal"

// ValidateCash reports whether a tendered cash amount covers the required
// total. There is no upper bound on the tendered amount.
func ValidateCash(received, required decimal.Decimal) bool {
	return received.GreaterThanOrEqual(required)
}

// ChangeDue returns max(0, received - required) rounded to 2 decimal places.
func ChangeDue(received, required decimal.Decimal) decimal.Decimal {
	change := received.Sub(required)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change.Round(2)
}
