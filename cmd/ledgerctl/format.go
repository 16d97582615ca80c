package main

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatAmount renders value in the given currency, for example "€1,234.50".
// An empty code prints the plain decimal with two places.
func formatAmount(value decimal.Decimal, code string) string {
	if code == "" {
		return value.StringFixed(2)
	}

	// money.New always yields a currency, unknown codes get a generic format
	cur := *money.New(0, code).Currency()
	minor := value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
