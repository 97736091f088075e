package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is quantized to two fractional digits at every boundary: parse,
// arithmetic result, and render. Binary floats never touch monetary
// values.

// ParseMoney parses a monetary amount, quantizing to two decimals.
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.Round(2), nil
}

// FormatMoney renders a monetary amount with exactly two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Quantize rounds a computed amount back to two decimals.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
