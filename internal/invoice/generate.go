package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
)

// AutoGenerate bills every unbilled time entry the acting identity logged
// for a client into one new UNPAID invoice.
//
// Concurrent calls for the same client and owner are serialized, so an
// entry is never billed twice. The loser of a race sees
// domain.ErrNoUnbilledHours.
func (s *Service) AutoGenerate(ctx context.Context, clientID uuid.UUID) (*Invoice, error) {
	owner, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	var inv *Invoice

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.clients.Get(ctx, clientID)
		if err != nil {
			return err
		}

		if err := s.tx.LockKey(ctx, "autogen:"+clientID.String()+":"+owner); err != nil {
			return err
		}

		entries, err := s.entries.ListUnbilledForUpdate(ctx, clientID, owner)
		if err != nil {
			return err
		}

		var items []*Item

		for _, e := range entries {
			if !s.guard.Owns(e.Owner, owner) || e.Billed() {
				continue
			}

			subtotal, err := ComputeSubtotal(e.Hours, e.HourlyRate)
			if err != nil {
				return fmt.Errorf("time entry %s: %w", e.ID, err)
			}

			entryID, date := e.ID, e.Date

			items = append(items, &Item{
				Description: e.Description,
				HoursWorked: e.Hours,
				HourlyRate:  e.HourlyRate,
				Subtotal:    subtotal,
				TimeEntryID: &entryID,
				Date:        &date,
			})
		}

		if len(items) == 0 {
			return fmt.Errorf("client %s: %w", clientID, domain.ErrNoUnbilledHours)
		}

		issued := s.today()

		number, err := s.nextNumber(ctx, issued)
		if err != nil {
			return err
		}

		sender := s.opts.SenderName
		if sender == "" {
			sender = owner
		}

		inv = &Invoice{
			Number:          number,
			SenderName:      sender,
			ReceiverName:    c.Name,
			ReceiverContact: c.Email,
			IssueDate:       issued,
			DueDate:         domain.Day(issued.Add(s.opts.PaymentTerm)),
			Status:          StatusUnpaid,
			Total:           ComputeTotal(items),
			Owner:           owner,
			Items:           items,
		}

		return s.persistNew(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "invoice generated",
		"invoice_id", inv.ID, "number", inv.Number, "client_id", clientID,
		"items", len(inv.Items), "total", inv.Total.StringFixed(2))

	s.announce(ctx, inv, ActionCreated)

	return inv, nil
}
