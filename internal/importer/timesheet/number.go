package timesheet

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errNotWhole = errors.New("must be a whole number of hours")

// parseNumber parses s in the given style. A leading currency sign and
// spaces are ignored: "€ 1.250,50" -> 1250.50.
func parseNumber(s string, style numberStyle) (decimal.Decimal, error) {
	clean := strings.NewReplacer("€", "", "EUR", "", " ", "", "\u00a0", "").Replace(s)

	switch style {
	case european:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case english:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}

// parseHours accepts "8", "8,0" or "8.00" but rejects fractions of an hour.
func parseHours(s string, style numberStyle) (int, error) {
	d, err := parseNumber(s, style)
	if err != nil {
		return 0, err
	}

	if !d.Equal(d.Truncate(0)) {
		return 0, errNotWhole
	}

	return int(d.IntPart()), nil
}
