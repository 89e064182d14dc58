// Package timesheet reads spreadsheet exports of worked hours.
package timesheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/domain"
)

// Row is one worked-hours line of a timesheet. Line is 1-based and counts
// every line of the file, including preamble.
type Row struct {
	Line        int
	Date        time.Time
	Description string
	Hours       int
	// Rate is nil when the sheet has no rate column or the cell is blank.
	Rate *decimal.Decimal
}

// Parser auto-detects the timesheet layout by matching header names against
// known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read timesheet: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		rows, err := readCSV(data, comma)
		if err != nil {
			continue
		}

		if profile, cols, headerIdx := detectProfile(rows, comma); profile != nil {
			return parseRows(profile, cols, rows[headerIdx+1:])
		}
	}

	return nil, domain.NewValidationError("file",
		"no known timesheet format found: expected Datum;Omschrijving;Uren[;Tarief] or Date,Description,Hours[,Rate]")
}

// record is a CSV row and the file line it starts on. encoding/csv skips
// blank lines, so the slice index alone does not give the line.
type record struct {
	line  int
	cells []string
}

func readCSV(data []byte, comma rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var out []record

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		out = append(out, record{line: line, cells: cells})
	}
}

type colIndex map[string]int

func detectProfile(rows []record, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row.cells {
			if name := strings.ToLower(strings.TrimSpace(cell)); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].Comma == comma && matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a parseable date (blank lines, totals) and
// collects every other problem so the whole file can be fixed in one go.
func parseRows(p *Profile, cols colIndex, rows []record) ([]Row, error) {
	rateIdx := -1
	if idx, ok := cols[p.RateCol]; ok {
		rateIdx = idx
	}

	var (
		out []Row
		v   domain.Validator
	)

	for _, rec := range rows {
		cells := rec.cells
		field := fmt.Sprintf("line %d", rec.line)

		date, ok := parseDate(p, cellValue(cells, cols[p.DateCol]))
		if !ok {
			continue
		}

		row := Row{Line: rec.line, Date: date, Description: cellValue(cells, cols[p.DescCol])}

		if row.Description == "" {
			v.Add(field, "missing description")
		}

		hours, err := parseHours(cellValue(cells, cols[p.HoursCol]), p.Numbers)

		switch {
		case errors.Is(err, errNotWhole):
			v.Add(field, "hours "+err.Error())
		case err != nil:
			v.Add(field, fmt.Sprintf("invalid hours %q", cellValue(cells, cols[p.HoursCol])))
		}

		row.Hours = hours

		if s := cellValue(cells, rateIdx); s != "" {
			rate, err := parseNumber(s, p.Numbers)
			if err != nil {
				v.Add(field, fmt.Sprintf("invalid rate %q", s))
			}

			row.Rate = &rate
		}

		out = append(out, row)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func parseDate(p *Profile, s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range p.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
