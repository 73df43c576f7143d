package importer

// numeric.go converts locale-formatted numeric strings to decimal values.
//
// Price files arrive in two flavors:
//   - dot decimals:   "1,234.56" (comma as thousands separator)
//   - comma decimals: "1.234,56" (dot as thousands separator)
//
// ParseNumber normalizes either flavor before conversion. Failure is a
// return value, not an error: callers must distinguish "unparseable" from
// a legitimate zero.

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber converts s to a decimal honoring the given decimal separator.
// Empty or whitespace-only input yields (0, true) - callers that need to
// treat "empty" differently must check emptiness first. Input that does not
// parse after normalization yields (0, false).
func ParseNumber(s string, decimalSep rune) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}

	if decimalSep == ',' {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
