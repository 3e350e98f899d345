package extraction

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// reconcileTolerance is the accounting tolerance for subtotal+tax=total.
const reconcileTolerance = 0.01

// ParseNumber converts a locale-formatted numeric substring to a float.
// Thousands commas are stripped first. The number pattern admits a few
// separator mixes that are not decimal literals, so callers must treat
// an error as "no number here".
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing number %q: %w", s, err)
	}
	return v, nil
}

// ReconcileTotals reports whether subtotal plus tax equals total within
// the fixed tolerance.
func ReconcileTotals(subtotal, tax, total float64) bool {
	return math.Abs(subtotal+tax-total) <= reconcileTolerance
}
