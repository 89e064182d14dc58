// Package importer turns uploaded timesheets into time entries.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/importer/timesheet"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

type EntryCreator interface {
	CreateBatch(ctx context.Context, params []timeentry.CreateParams) ([]*timeentry.TimeEntry, error)
}

type Suggester interface {
	Suggest(ctx context.Context, rawDescription string) (string, error)
}

type Service struct {
	parser  Importer
	entries EntryCreator
	matcher Suggester
	log     *slog.Logger
}

func NewService(log *slog.Logger, entries EntryCreator, matcher Suggester) *Service {
	return &Service{
		parser:  timesheet.NewParser(),
		entries: entries,
		matcher: matcher,
		log:     log.With("service", "importer"),
	}
}

// Params says where imported hours are booked.
type Params struct {
	ClientID  uuid.UUID
	ProjectID *uuid.UUID
	// DefaultRate applies to rows without a rate of their own.
	DefaultRate decimal.Decimal
}

// Preview parses a timesheet into entry parameters without saving anything.
// Descriptions are replaced by the caller's learned wording where a mapping
// matches.
func (s *Service) Preview(ctx context.Context, r io.Reader, p Params) ([]timeentry.CreateParams, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	var v domain.Validator

	out := make([]timeentry.CreateParams, 0, len(rows))

	for _, row := range rows {
		rate := p.DefaultRate
		if row.Rate != nil {
			rate = *row.Rate
		}

		v.Check(rate.IsPositive(), fmt.Sprintf("line %d", row.Line), "no hourly rate in the sheet and no default given")

		out = append(out, timeentry.CreateParams{
			Description: s.suggest(ctx, row.Description),
			Hours:       row.Hours,
			HourlyRate:  rate,
			Date:        row.Date,
			ClientID:    p.ClientID,
			ProjectID:   p.ProjectID,
		})
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// Import parses a timesheet and saves all its rows as unbilled entries in
// one transaction.
func (s *Service) Import(ctx context.Context, r io.Reader, p Params) ([]*timeentry.TimeEntry, error) {
	params, err := s.Preview(ctx, r, p)
	if err != nil {
		return nil, err
	}

	if len(params) == 0 {
		return nil, domain.NewValidationError("file", "timesheet contains no rows")
	}

	entries, err := s.entries.CreateBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("import timesheet: %w", err)
	}

	s.log.InfoContext(ctx, "timesheet imported", "client_id", p.ClientID, "entries", len(entries))

	return entries, nil
}

func (s *Service) suggest(ctx context.Context, raw string) string {
	suggested, err := s.matcher.Suggest(ctx, raw)
	if err != nil {
		s.log.DebugContext(ctx, "description suggestion failed", "error", err)
		return raw
	}

	if strings.TrimSpace(suggested) == "" {
		return raw
	}

	return suggested
}
