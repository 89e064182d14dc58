package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/domain"
)

// ComputeSubtotal returns hours × rate exactly.
func ComputeSubtotal(hours int, rate decimal.Decimal) (decimal.Decimal, error) {
	var v domain.Validator

	v.Check(hours >= 1, "hours_worked", "must be at least 1")
	v.Check(rate.IsPositive(), "hourly_rate", "must be greater than 0")

	if err := v.Err(); err != nil {
		return decimal.Zero, err
	}

	return rate.Mul(decimal.NewFromInt(int64(hours))), nil
}

func ComputeTotal(items []*Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}

	return total
}

// FormatNumber renders the display number for the seq-th invoice, e.g. INV-2025-0042.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}
