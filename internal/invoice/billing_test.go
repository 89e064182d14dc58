package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

func TestComputeSubtotal(t *testing.T) {
	type testCase struct {
		name    string
		hours   int
		rate    string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "WholeRate", hours: 4, rate: "25.00", want: "100.00"},
		{name: "Cents", hours: 3, rate: "33.33", want: "99.99"},
		{name: "NoFloatDrift", hours: 3, rate: "0.10", want: "0.30"},
		{name: "ZeroHours", hours: 0, rate: "25.00", wantErr: true},
		{name: "NegativeHours", hours: -1, rate: "25.00", wantErr: true},
		{name: "ZeroRate", hours: 2, rate: "0", wantErr: true},
		{name: "NegativeRate", hours: 2, rate: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := invoice.ComputeSubtotal(tt.hours, decimal.RequireFromString(tt.rate))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestComputeSubtotal_Deterministic(t *testing.T) {
	for range 10 {
		got, err := invoice.ComputeSubtotal(4, decimal.RequireFromString("25.00"))
		require.NoError(t, err)
		assert.Equal(t, "100.00", got.StringFixed(2))
	}
}

func TestComputeTotal(t *testing.T) {
	items := []*invoice.Item{
		{Subtotal: decimal.RequireFromString("100.00")},
		{Subtotal: decimal.RequireFromString("25.50")},
		{Subtotal: decimal.RequireFromString("0.01")},
	}

	first := invoice.ComputeTotal(items)
	second := invoice.ComputeTotal(items)

	assert.Equal(t, "125.51", first.StringFixed(2))
	assert.True(t, first.Equal(second))
	assert.True(t, invoice.ComputeTotal(nil).IsZero())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-2025-0001", invoice.FormatNumber(2025, 1))
	assert.Equal(t, "INV-2025-0042", invoice.FormatNumber(2025, 42))
	assert.Equal(t, "INV-2026-12345", invoice.FormatNumber(2026, 12345))
}

func TestParseStatus(t *testing.T) {
	type testCase struct {
		in      string
		want    invoice.Status
		wantErr bool
	}

	tests := []testCase{
		{in: "UNPAID", want: invoice.StatusUnpaid},
		{in: "paid", want: invoice.StatusPaid},
		{in: "  Overdue ", want: invoice.StatusOverdue},
		{in: "", wantErr: true},
		{in: "CANCELLED", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := invoice.ParseStatus(tt.in)
			if tt.wantErr {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "status", verr.Errors[0].Field)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
