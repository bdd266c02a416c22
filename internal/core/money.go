// Package core provides amount parsing and formatting.
//
// Amounts are arbitrary precision decimals; sums never go through float64.
package core

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ParseAmount converts user input to a non-negative decimal.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. A comma
// followed by exactly three digits (1,234) reads as a thousands separator and
// is rejected rather than guessed.
// Returns ErrInvalidAmount for empty, non-numeric or negative input.
//
// Examples:
//
//	ParseAmount("20")    -> 20, nil
//	ParseAmount("12,50") -> 12.5, nil
//	ParseAmount("1,234") -> 0, ErrInvalidAmount
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if !strings.Contains(s, ".") {
		if i := strings.IndexByte(s, ','); i >= 0 && isDigits(s[i+1:]) && len(s)-i-1 == 3 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// FormatAmount renders d for display in the given ISO 4217 currency.
// An empty currency yields a plain two-decimal number; an unknown code is
// appended as a suffix.
func FormatAmount(d decimal.Decimal, currency string) string {
	if currency == "" {
		return d.StringFixed(2)
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
