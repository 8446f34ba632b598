/*
money.go - Currency-exact arithmetic helpers

PURPOSE:
  All monetary values flow through decimal.Decimal so that aggregation is
  exact in base 10. Every accumulation step rounds half-up to 2 decimal
  places, so 15.50 * 3 is exactly 46.50 and never 46.50000000001.

FLOAT BOUNDARY:
  float64 only ever appears at the edges (JSON, spreadsheet cells). The
  conversions here coerce NaN and infinities to zero instead of letting
  non-numeric values leak into a financial report.
*/
package payroll

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundToCents rounds half-up to 2 decimal places.
func RoundToCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MultiplyAndRound computes price * n, rounded to cents.
// The product of a 2-decimal price and an integer is already exact;
// the rounding guards prices with more precision.
func MultiplyAndRound(price decimal.Decimal, n int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(n))).Round(2)
}

// AddAndRound sums two amounts, rounded to cents.
func AddAndRound(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b).Round(2)
}

// MoneyFromFloat converts a boundary float to an exact amount.
// NaN and infinite inputs degrade to zero rather than corrupting a report.
func MoneyFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(2)
}

// MustMoney parses a decimal string, returning zero on malformed input.
// Intended for constants and seed data, not user input.
func MustMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
