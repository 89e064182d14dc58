package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

// ItemInput is one invoice line as supplied by the caller. Its subtotal is
// always computed, never taken from input.
type ItemInput struct {
	Description string
	HoursWorked int
	HourlyRate  decimal.Decimal
	TimeEntryID *uuid.UUID
}

type CreateInput struct {
	// Number is generated when blank.
	Number          string
	SenderName      string
	ReceiverName    string
	ReceiverContact string
	IssueDate       time.Time
	DueDate         time.Time
	// Status defaults to UNPAID when blank.
	Status string
	Items  []ItemInput
}

// UpdateInput fully replaces an invoice's fields and items. A blank Number
// or Status keeps the current value.
type UpdateInput CreateInput

// build validates the input and returns an unsaved invoice with computed
// subtotals and total.
func (in CreateInput) build() (*Invoice, error) {
	var v domain.Validator

	v.Check(strings.TrimSpace(in.SenderName) != "", "sender_name", "is required")
	v.Check(strings.TrimSpace(in.ReceiverName) != "", "receiver_name", "is required")
	v.Check(!in.IssueDate.IsZero(), "issue_date", "is required")
	v.Check(!in.DueDate.IsZero(), "due_date", "is required")

	if !in.IssueDate.IsZero() && !in.DueDate.IsZero() {
		v.Check(!domain.Day(in.IssueDate).After(domain.Day(in.DueDate)), "due_date", "must not be before issue_date")
	}

	status := StatusUnpaid

	if strings.TrimSpace(in.Status) != "" {
		parsed, err := ParseStatus(in.Status)
		if err != nil {
			v.Add("status", "must be one of UNPAID, PAID, OVERDUE")
		}

		status = parsed
	}

	v.Check(len(in.Items) > 0, "items", "must contain at least one item")

	items := make([]*Item, 0, len(in.Items))
	seen := make(map[uuid.UUID]bool)

	for i, it := range in.Items {
		prefix := fmt.Sprintf("items[%d].", i)

		v.Check(strings.TrimSpace(it.Description) != "", prefix+"description", "is required")

		subtotal, err := ComputeSubtotal(it.HoursWorked, it.HourlyRate)

		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				v.Add(prefix+fe.Field, fe.Message)
			}
		}

		if it.TimeEntryID != nil {
			v.Check(!seen[*it.TimeEntryID], prefix+"time_entry_id", "is referenced more than once")
			seen[*it.TimeEntryID] = true
		}

		items = append(items, &Item{
			Description: strings.TrimSpace(it.Description),
			HoursWorked: it.HoursWorked,
			HourlyRate:  it.HourlyRate,
			Subtotal:    subtotal,
			TimeEntryID: it.TimeEntryID,
		})
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	return &Invoice{
		Number:          strings.TrimSpace(in.Number),
		SenderName:      strings.TrimSpace(in.SenderName),
		ReceiverName:    strings.TrimSpace(in.ReceiverName),
		ReceiverContact: strings.TrimSpace(in.ReceiverContact),
		IssueDate:       domain.Day(in.IssueDate),
		DueDate:         domain.Day(in.DueDate),
		Status:          status,
		Total:           ComputeTotal(items),
		Items:           items,
	}, nil
}

// Create stores a new invoice owned by the acting identity. Items that
// reference the caller's unbilled time entries bill those entries.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Invoice, error) {
	owner, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := in.build()
	if err != nil {
		return nil, err
	}

	inv.Owner = owner

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		entries, err := s.lockUnbilledEntries(ctx, inv.TimeEntryIDs(), owner)
		if err != nil {
			return err
		}

		for _, it := range inv.Items {
			if it.TimeEntryID != nil {
				d := entries[*it.TimeEntryID].Date
				it.Date = &d
			}
		}

		if inv.Number == "" {
			if inv.Number, err = s.nextNumber(ctx, inv.IssueDate); err != nil {
				return err
			}
		}

		return s.persistNew(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "invoice created",
		"invoice_id", inv.ID, "number", inv.Number, "owner", owner, "total", inv.Total.StringFixed(2))

	s.announce(ctx, inv, ActionCreated)

	return inv, nil
}

// lockUnbilledEntries row-locks the referenced entries and checks each one
// is owned by owner and still unbilled.
func (s *Service) lockUnbilledEntries(ctx context.Context, ids []uuid.UUID, owner string) (map[uuid.UUID]*timeentry.TimeEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	entries, err := s.entries.GetTimeEntriesForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*timeentry.TimeEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("time entry %s: %w", id, domain.ErrNotFound)
		}

		if err := s.guard.Authorize("time entry", id, e.Owner, owner); err != nil {
			return nil, err
		}

		if e.Billed() {
			return nil, fmt.Errorf("time entry %s is already billed: %w", id, domain.ErrConflict)
		}
	}

	return byID, nil
}

// persistNew writes the invoice, then its items, then claims the linked
// entries. Claiming fewer entries than linked means another invoice won
// the race.
func (s *Service) persistNew(ctx context.Context, inv *Invoice) error {
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return err
	}

	if err := s.repo.ReplaceItems(ctx, inv.ID, inv.Items); err != nil {
		return err
	}

	ids := inv.TimeEntryIDs()

	claimed, err := s.entries.AssignTimeEntries(ctx, ids, inv.ID)
	if err != nil {
		return err
	}

	if claimed != int64(len(ids)) {
		return fmt.Errorf("claimed %d of %d time entries: %w", claimed, len(ids), domain.ErrConflict)
	}

	return nil
}
