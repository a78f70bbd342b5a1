// Package core holds the shared transaction data model.
//
// This file contains amount parsing and conversion helpers. Amounts are
// decimal values with two fractional digits; the SQL stores keep them as
// integer cents so that sums stay exact.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses signed decimal text into a two-decimal-place amount.
//
// Anything beyond the second fractional digit is rounded half away from
// zero, so "12.345" becomes 12.35 and "-12.345" becomes -12.35.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// AmountToCents converts an amount to integer cents for storage.
func AmountToCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// AmountFromCents converts stored integer cents back to an amount.
func AmountFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
