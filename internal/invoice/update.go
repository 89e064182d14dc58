package invoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

// Update replaces an invoice's fields and items and recomputes its total.
// Time entries billed by the invoice but no longer referenced by any item
// become unbilled again; new items may only reference entries the invoice
// already bills.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Invoice, error) {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	var (
		inv      *Invoice
		released int64
	)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetInvoiceForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := s.guard.Authorize("invoice", id, cur.Owner, actor); err != nil {
			return err
		}

		next, err := CreateInput(in).build()
		if err != nil {
			return err
		}

		linked, err := s.entries.ListInvoiceTimeEntries(ctx, id)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*timeentry.TimeEntry, len(linked))
		for _, e := range linked {
			byID[e.ID] = e
		}

		kept := make(map[uuid.UUID]bool)

		for i, it := range next.Items {
			if it.TimeEntryID == nil {
				continue
			}

			e, ok := byID[*it.TimeEntryID]
			if !ok {
				return domain.NewValidationError(fmt.Sprintf("items[%d].time_entry_id", i), "is not billed by this invoice")
			}

			d := e.Date
			it.Date = &d
			kept[e.ID] = true
		}

		var dropped []uuid.UUID

		for _, e := range linked {
			if !kept[e.ID] {
				dropped = append(dropped, e.ID)
			}
		}

		if released, err = s.entries.ReleaseTimeEntries(ctx, dropped, id); err != nil {
			return err
		}

		next.ID = cur.ID
		next.Owner = cur.Owner
		next.CreatedAt = cur.CreatedAt

		if next.Number == "" {
			next.Number = cur.Number
		}

		if strings.TrimSpace(in.Status) == "" {
			next.Status = cur.Status
		}

		if err := s.repo.UpdateInvoice(ctx, next); err != nil {
			return err
		}

		if err := s.repo.ReplaceItems(ctx, id, next.Items); err != nil {
			return err
		}

		inv = next

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "invoice updated",
		"invoice_id", id, "total", inv.Total.StringFixed(2), "released_entries", released)

	s.announce(ctx, inv, ActionUpdated)

	return inv, nil
}
