package timesheet_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/importer/timesheet"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Dutch(t *testing.T) {
	csv := `Urenverantwoording maart 2025
Klant;Klant A

Datum;Omschrijving;Uren;Tarief
03-03-2025;Ontwikkeling backend;5;50,00
04-03-2025;Overleg;2;1.250,50
;;7;Totaal
`

	rows, err := timesheet.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, date(2025, 3, 3), rows[0].Date)
	assert.Equal(t, "Ontwikkeling backend", rows[0].Description)
	assert.Equal(t, 5, rows[0].Hours)
	require.NotNil(t, rows[0].Rate)
	assert.True(t, decimal.RequireFromString("50").Equal(*rows[0].Rate))
	assert.Equal(t, 5, rows[0].Line)

	require.NotNil(t, rows[1].Rate)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(*rows[1].Rate))
}

func TestParser_English(t *testing.T) {
	csv := "Date,Description,Hours,Rate\n" +
		"2025-03-03,Backend work,8,\"1,250.00\"\n" +
		"2025-03-04,Review,1.0,75\n"

	rows, err := timesheet.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 8, rows[0].Hours)
	assert.True(t, decimal.RequireFromString("1250").Equal(*rows[0].Rate))
	assert.Equal(t, 1, rows[1].Hours)
	assert.Equal(t, date(2025, 3, 4), rows[1].Date)
}

func TestParser_WithoutRateColumn(t *testing.T) {
	csv := "Uren;Datum;Omschrijving\n3;10-03-2025;Support\n"

	rows, err := timesheet.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 3, rows[0].Hours)
	assert.Nil(t, rows[0].Rate)
}

func TestParser_CurrencySign(t *testing.T) {
	csv := "Datum;Omschrijving;Uren;Tarief\n10-03-2025;Support;3;€ 95,00\n"

	rows, err := timesheet.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, decimal.RequireFromString("95").Equal(*rows[0].Rate))
}

func TestParser_RowErrors(t *testing.T) {
	csv := "Datum;Omschrijving;Uren;Tarief\n" +
		"10-03-2025;Support;1,5;50\n" +
		"11-03-2025;;2;50\n" +
		"12-03-2025;Overleg;twee;50\n" +
		"13-03-2025;Overleg;2;veel\n"

	_, err := timesheet.NewParser().Parse(strings.NewReader(csv))
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 4)

	assert.Equal(t, "line 2", verr.Errors[0].Field)
	assert.Contains(t, verr.Errors[0].Message, "whole")
	assert.Equal(t, "line 3", verr.Errors[1].Field)
	assert.Contains(t, verr.Errors[1].Message, "description")
	assert.Contains(t, verr.Errors[2].Message, "hours")
	assert.Contains(t, verr.Errors[3].Message, "rate")
}

func TestParser_UnknownFormat(t *testing.T) {
	_, err := timesheet.NewParser().Parse(strings.NewReader("foo;bar\n1;2\n"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := timesheet.NewParser().Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParser_HeaderOnly(t *testing.T) {
	rows, err := timesheet.NewParser().Parse(strings.NewReader("Datum;Omschrijving;Uren;Tarief\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParser_Encodings(t *testing.T) {
	const text = "Datum;Omschrijving;Uren\n10-03-2025;Café overleg;2\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "UTF8", input: []byte(text)},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, text...)},
		{name: "Windows1252", input: latin1},
		{name: "UTF16LE", input: utf16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := timesheet.NewParser().Parse(bytes.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, rows, 1)

			assert.Equal(t, "Café overleg", rows[0].Description)
		})
	}
}
