package money

import "github.com/shopspring/decimal"

// Symbol is prepended to every formatted amount.
const Symbol = "£"

// Format renders an amount held in minor units (pence) as a display string,
// e.g. 124 -> "£1.24" and 5 -> "£0.05".
func Format(minor int64) string {
	return Symbol + decimal.New(minor, -2).StringFixed(2)
}
