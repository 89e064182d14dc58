package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order matches selectEntryColumns.
func scanEntry(s scanner) (*timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry

	var updatedAt sql.NullTime

	if err := s.Scan(
		&e.ID, &e.Description, &e.Hours, &e.HourlyRate, &e.Date,
		&e.ClientID, &e.ProjectID, &e.InvoiceID, &e.Owner, &e.CreatedAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		e.UpdatedAt = &updatedAt.Time
	}

	return &e, nil
}

const selectEntryColumns = `
	id, description, hours, hourly_rate, date, client_id, project_id, invoice_id,
	created_by, created_at, updated_at
`

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]*timeentry.TimeEntry, error) {
	rows, err := database.QuerierFromCtx(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying time entries: %w", err)
	}
	defer rows.Close()

	var entries []*timeentry.TimeEntry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning time entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entry rows: %w", err)
	}

	return entries, nil
}

func (s *Store) CreateTimeEntry(ctx context.Context, e *timeentry.TimeEntry) error {
	query := `
		INSERT INTO time_entries (description, hours, hourly_rate, date, client_id, project_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query,
		e.Description,
		e.Hours,
		e.HourlyRate,
		e.Date,
		e.ClientID,
		e.ProjectID,
		e.Owner,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return database.MapError(err, "client", e.ClientID)
	}

	return nil
}

// CreateTimeEntries inserts entries one by one; callers wrap it in a transaction.
func (s *Store) CreateTimeEntries(ctx context.Context, entries []*timeentry.TimeEntry) error {
	for _, e := range entries {
		if err := s.CreateTimeEntry(ctx, e); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) GetTimeEntry(ctx context.Context, id uuid.UUID) (*timeentry.TimeEntry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM time_entries WHERE id = $1`

	e, err := scanEntry(database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, database.MapError(err, "time entry", id)
	}

	return e, nil
}

func (s *Store) ListTimeEntries(ctx context.Context, filter timeentry.ListFilter) ([]*timeentry.TimeEntry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM time_entries WHERE created_by = $1`

	args := []any{filter.Owner}

	argIdx := 2

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.ProjectID != nil {
		query += fmt.Sprintf(" AND project_id = $%d", argIdx)

		args = append(args, *filter.ProjectID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	if filter.Unbilled {
		query += " AND invoice_id IS NULL"
	}

	query += " ORDER BY date ASC, created_at ASC"

	return s.queryEntries(ctx, query, args...)
}

func (s *Store) UpdateTimeEntry(ctx context.Context, e *timeentry.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET description = $1, hours = $2, hourly_rate = $3, date = $4, project_id = $5, updated_at = NOW()
		WHERE id = $6 AND invoice_id IS NULL
		RETURNING updated_at
	`

	var updatedAt sql.NullTime

	err := database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query,
		e.Description, e.Hours, e.HourlyRate, e.Date, e.ProjectID, e.ID,
	).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("time entry %s is billed: %w", e.ID, domain.ErrConflict)
	}

	if err != nil {
		return database.MapError(err, "time entry", e.ID)
	}

	e.UpdatedAt = &updatedAt.Time

	return nil
}

func (s *Store) DeleteTimeEntry(ctx context.Context, id uuid.UUID) error {
	res, err := database.QuerierFromCtx(ctx, s.db).ExecContext(ctx,
		`DELETE FROM time_entries WHERE id = $1 AND invoice_id IS NULL`, id)
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("time entry %s is billed: %w", id, domain.ErrConflict)
	}

	return nil
}

// ListUnbilledForUpdate locks and returns a client's unbilled entries for owner.
func (s *Store) ListUnbilledForUpdate(ctx context.Context, clientID uuid.UUID, owner string) ([]*timeentry.TimeEntry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM time_entries
		WHERE client_id = $1 AND created_by = $2 AND invoice_id IS NULL
		ORDER BY date ASC, created_at ASC
		FOR UPDATE`

	return s.queryEntries(ctx, query, clientID, owner)
}

// GetTimeEntriesForUpdate locks and returns the entries with the given ids.
// Missing ids are silently absent from the result.
func (s *Store) GetTimeEntriesForUpdate(ctx context.Context, ids []uuid.UUID) ([]*timeentry.TimeEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + selectEntryColumns + `
		FROM time_entries
		WHERE id = ANY($1::uuid[])
		ORDER BY date ASC, created_at ASC
		FOR UPDATE`

	return s.queryEntries(ctx, query, uuidStrings(ids))
}

func (s *Store) ListInvoiceTimeEntries(ctx context.Context, invoiceID uuid.UUID) ([]*timeentry.TimeEntry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM time_entries
		WHERE invoice_id = $1
		ORDER BY date ASC, created_at ASC`

	return s.queryEntries(ctx, query, invoiceID)
}

// AssignTimeEntries links unbilled entries to an invoice and reports how many were claimed.
func (s *Store) AssignTimeEntries(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE time_entries
		SET invoice_id = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[]) AND invoice_id IS NULL
	`

	return s.exec(ctx, "assigning time entries", query, invoiceID, uuidStrings(ids))
}

// ReleaseTimeEntries unlinks the given entries from invoiceID.
func (s *Store) ReleaseTimeEntries(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE time_entries
		SET invoice_id = NULL, updated_at = NOW()
		WHERE id = ANY($1::uuid[]) AND invoice_id = $2
	`

	return s.exec(ctx, "releasing time entries", query, uuidStrings(ids), invoiceID)
}

// ReleaseInvoiceTimeEntries unlinks every entry billed by invoiceID.
func (s *Store) ReleaseInvoiceTimeEntries(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	query := `
		UPDATE time_entries
		SET invoice_id = NULL, updated_at = NOW()
		WHERE invoice_id = $1
	`

	return s.exec(ctx, "releasing invoice time entries", query, invoiceID)
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := database.QuerierFromCtx(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}
