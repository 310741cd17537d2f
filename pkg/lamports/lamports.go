// Package lamports converts ledger amounts to SOL for display.
package lamports

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	PerSOL   int64 = 1_000_000_000
	decimals int32 = 9
)

// ToSOL renders lamports as a SOL string without trailing zeros, e.g. 150000000 -> "0.15".
func ToSOL(l int64) string {
	return decimal.New(l, -decimals).String()
}

// FromSOL parses a SOL amount into lamports. Fractions below one lamport are rejected.
func FromSOL(sol string) (int64, error) {
	d, err := decimal.NewFromString(sol)
	if err != nil {
		return 0, fmt.Errorf("parse sol amount %q: %w", sol, err)
	}
	l := d.Shift(decimals)
	if !l.IsInteger() {
		return 0, fmt.Errorf("sol amount %q is finer than one lamport", sol)
	}
	if l.GreaterThan(decimal.NewFromInt(1<<63 - 1)) || l.LessThan(decimal.NewFromInt(-1<<63)) {
		return 0, fmt.Errorf("sol amount %q out of range", sol)
	}
	return l.IntPart(), nil
}

// FromFloat converts a whole-number-friendly SOL value such as 0.25 to lamports.
func FromFloat(sol float64) int64 {
	return decimal.NewFromFloat(sol).Shift(decimals).Round(0).IntPart()
}
