// Package money converts integer minor-unit amounts into decimal major units.
package money

import "github.com/shopspring/decimal"

// Exponent is the number of minor-unit digits of the store currency.
const Exponent = 2

// FromMinor returns minor as a decimal in major units (1299 -> 12.99).
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -Exponent)
}

// ToMinor rounds d to the nearest minor unit.
func ToMinor(d decimal.Decimal) int64 {
	return d.Shift(Exponent).Round(0).IntPart()
}

// Format renders minor with exactly two decimals, e.g. "12.99".
func Format(minor int64) string {
	return FromMinor(minor).StringFixed(Exponent)
}
