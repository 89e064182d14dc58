package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange(t *testing.T) {
	today := time.Date(2025, time.January, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		tf   Timeframe
		from string
		to   string
	}{
		{TimeframeThisMonth, "2025-01-01", "2025-01-31"},
		{TimeframeLastMonth, "2024-12-01", "2024-12-31"},
		{TimeframeThisQuarter, "2025-01-01", "2025-03-31"},
		{TimeframeThisYear, "2025-01-01", "2025-12-31"},
		{TimeframeLastYear, "2024-01-01", "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			from, to := dateRange(tt.tf, today)
			require.NotNil(t, from)
			require.NotNil(t, to)

			assert.Equal(t, tt.from, from.Format(time.DateOnly))
			assert.Equal(t, tt.to, to.Format(time.DateOnly))
		})
	}

	t.Run("All Time", func(t *testing.T) {
		from, to := dateRange(TimeframeAll, today)
		assert.Nil(t, from)
		assert.Nil(t, to)
	})
}

func TestDateRange_QuarterOfNovember(t *testing.T) {
	from, to := dateRange(TimeframeThisQuarter, time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "2025-10-01", from.Format(time.DateOnly))
	assert.Equal(t, "2025-12-31", to.Format(time.DateOnly))
}

func TestParseCustomRange(t *testing.T) {
	t.Run("both sides", func(t *testing.T) {
		from, to, err := parseCustomRange("2025-02-01", " 2025-02-28 ")
		require.NoError(t, err)

		assert.Equal(t, "2025-02-01", from.Format(time.DateOnly))
		assert.Equal(t, "2025-02-28", to.Format(time.DateOnly))
	})

	t.Run("open end", func(t *testing.T) {
		from, to, err := parseCustomRange("2025-02-01", "")
		require.NoError(t, err)

		assert.NotNil(t, from)
		assert.Nil(t, to)
	})

	t.Run("bad date", func(t *testing.T) {
		_, _, err := parseCustomRange("01/02/2025", "")
		assert.EqualError(t, err, "invalid start date (YYYY-MM-DD)")
	})

	t.Run("reversed", func(t *testing.T) {
		_, _, err := parseCustomRange("2025-03-01", "2025-02-01")
		assert.ErrorIs(t, err, errEndBeforeStart)
	})
}

func TestValidateRate(t *testing.T) {
	assert.NoError(t, validateRate(true)(""))
	assert.Error(t, validateRate(false)(""))
	assert.NoError(t, validateRate(false)("62.50"))
	assert.Error(t, validateRate(false)("-1"))
	assert.Error(t, validateRate(false)("abc"))
}
