// Package types provides common numeric type aliases and the rounding policy.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity represents a stock quantity with full precision.
// Shares the decimal representation with Money so that valuation
// arithmetic (quantity × price) never leaves the decimal domain.
type Quantity = decimal.Decimal

// Rounding policy. Applied once at write boundaries, never repeatedly
// mid-computation:
//   - unit costs keep 6 fractional digits (the scale of a unit cost column),
//   - monetary amounts keep 2.
const (
	CostScale   int32 = 6
	AmountScale int32 = 2
)

// RoundCost rounds a unit cost to the cost scale.
func RoundCost(d decimal.Decimal) decimal.Decimal {
	return d.Round(CostScale)
}

// RoundAmount rounds a monetary amount to the amount scale.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// Zero returns the zero decimal value.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// NewFromString creates a decimal from a string.
// This is the preferred constructor for monetary values.
func NewFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustDecimal creates a decimal from a string, panics on error.
// Use only for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
