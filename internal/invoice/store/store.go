package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
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

const selectInvoiceColumns = `
	id, invoice_number, sender_name, receiver_name, receiver_contact, issue_date, due_date,
	status, total_amount, created_by, created_at, updated_at
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var (
		status    string
		updatedAt sql.NullTime
	)

	if err := s.Scan(
		&inv.ID, &inv.Number, &inv.SenderName, &inv.ReceiverName, &inv.ReceiverContact,
		&inv.IssueDate, &inv.DueDate, &status, &inv.Total, &inv.Owner, &inv.CreatedAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(status)

	if updatedAt.Valid {
		inv.UpdatedAt = &updatedAt.Time
	}

	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			invoice_number, sender_name, receiver_name, receiver_contact,
			issue_date, due_date, status, total_amount, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query,
		inv.Number,
		inv.SenderName,
		inv.ReceiverName,
		inv.ReceiverContact,
		inv.IssueDate,
		inv.DueDate,
		inv.Status,
		inv.Total,
		inv.Owner,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return database.MapError(err, "invoice", inv.Number)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	return s.getInvoice(ctx, id, "")
}

func (s *Store) GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	return s.getInvoice(ctx, id, " FOR UPDATE")
}

func (s *Store) getInvoice(ctx context.Context, id uuid.UUID, lock string) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE id = $1` + lock

	inv, err := scanInvoice(database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, database.MapError(err, "invoice", id)
	}

	if inv.Items, err = s.listItems(ctx, []uuid.UUID{id}); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE created_by = $1`

	args := []any{filter.Owner}

	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.IssuedFrom != nil {
		query += fmt.Sprintf(" AND issue_date >= $%d", argIdx)

		args = append(args, *filter.IssuedFrom)
		argIdx++
	}

	if filter.IssuedTo != nil {
		query += fmt.Sprintf(" AND issue_date <= $%d", argIdx)

		args = append(args, *filter.IssuedTo)
	}

	query += " ORDER BY created_at ASC, invoice_number ASC"

	rows, err := database.QuerierFromCtx(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var (
		invoices []*invoice.Invoice
		ids      []uuid.UUID
	)

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
		ids = append(ids, inv.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	if len(ids) == 0 {
		return invoices, nil
	}

	items, err := s.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	byInvoice := make(map[uuid.UUID][]*invoice.Item, len(ids))
	for _, it := range items {
		byInvoice[it.InvoiceID] = append(byInvoice[it.InvoiceID], it)
	}

	for _, inv := range invoices {
		inv.Items = byInvoice[inv.ID]
	}

	return invoices, nil
}

// listItems returns the items of the given invoices ordered by position,
// with the date of each linked time entry.
func (s *Store) listItems(ctx context.Context, invoiceIDs []uuid.UUID) ([]*invoice.Item, error) {
	ids := make([]string, len(invoiceIDs))
	for i, id := range invoiceIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT it.id, it.invoice_id, it.description, it.hours_worked, it.hourly_rate, it.subtotal,
			it.time_entry_id, te.date
		FROM invoice_items it
		LEFT JOIN time_entries te ON te.id = it.time_entry_id
		WHERE it.invoice_id = ANY($1::uuid[])
		ORDER BY it.invoice_id, it.position ASC
	`

	rows, err := database.QuerierFromCtx(ctx, s.db).QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("listing invoice items: %w", err)
	}
	defer rows.Close()

	var items []*invoice.Item

	for rows.Next() {
		var (
			it   invoice.Item
			date sql.NullTime
		)

		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.Description, &it.HoursWorked, &it.HourlyRate, &it.Subtotal,
			&it.TimeEntryID, &date,
		); err != nil {
			return nil, fmt.Errorf("scanning invoice item: %w", err)
		}

		if date.Valid {
			d := date.Time
			it.Date = &d
		}

		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice item rows: %w", err)
	}

	return items, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_number = $1, sender_name = $2, receiver_name = $3, receiver_contact = $4,
			issue_date = $5, due_date = $6, status = $7, total_amount = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	var updatedAt time.Time

	err := database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query,
		inv.Number,
		inv.SenderName,
		inv.ReceiverName,
		inv.ReceiverContact,
		inv.IssueDate,
		inv.DueDate,
		inv.Status,
		inv.Total,
		inv.ID,
	).Scan(&updatedAt)
	if err != nil {
		return database.MapError(err, "invoice", inv.ID)
	}

	inv.UpdatedAt = &updatedAt

	return nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status invoice.Status) error {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var got uuid.UUID
	if err := database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query, status, id).Scan(&got); err != nil {
		return database.MapError(err, "invoice", id)
	}

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	q := database.QuerierFromCtx(ctx, s.db)

	if _, err := q.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("deleting invoice items: %w", err)
	}

	res, err := q.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return database.MapError(err, "invoice", id)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return database.MapError(sql.ErrNoRows, "invoice", id)
	}

	return nil
}

// ReplaceItems deletes the invoice's items and inserts items in order.
func (s *Store) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []*invoice.Item) error {
	q := database.QuerierFromCtx(ctx, s.db)

	if _, err := q.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("deleting invoice items: %w", err)
	}

	query := `
		INSERT INTO invoice_items (invoice_id, position, description, hours_worked, hourly_rate, subtotal, time_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	for i, it := range items {
		it.InvoiceID = invoiceID

		err := q.QueryRowContext(ctx, query,
			invoiceID, i, it.Description, it.HoursWorked, it.HourlyRate, it.Subtotal, it.TimeEntryID,
		).Scan(&it.ID)
		if err != nil {
			return database.MapError(err, "invoice item", i)
		}
	}

	return nil
}

// NextInvoiceSequence draws the next value of the invoice number sequence.
func (s *Store) NextInvoiceSequence(ctx context.Context) (int64, error) {
	var seq int64

	if err := database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx,
		`SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("drawing invoice number: %w", err)
	}

	return seq, nil
}
