// Package engine contains the pure calculation core of the exchange
// house: weighted-average-cost stock, current-account balances, lender
// interest accrual and the report reducers. Every function here is a
// deterministic fold over an in-memory snapshot of the movement list —
// no I/O, no locking, no mutation of inputs. Callers snapshot first.
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal is the single shared safe-parse-to-zero utility: any
// input that does not parse as a number coerces to zero, never to an
// error. Absence of a value is not a failure condition in this domain.
//
// Coercion table (asserted in parse_test.go):
//
//	""            → 0
//	"  "          → 0
//	"null"/"NaN"  → 0
//	"abc"         → 0
//	"12,50"       → 12.5  (comma decimal separator accepted)
//	"-3.25"       → -3.25
//	"1.2e3"       → 1200
func ParseDecimal(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	switch strings.ToLower(s) {
	case "null", "undefined", "nan", "-":
		return decimal.Zero
	}
	// Operators type amounts with either separator.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
