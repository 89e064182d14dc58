package invoice

import (
	"context"

	"github.com/google/uuid"
)

// UpdateStatus sets the invoice status. Any transition is allowed and the
// total is left untouched.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) error {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return err
	}

	status, err := ParseStatus(raw)
	if err != nil {
		return err
	}

	var inv *Invoice

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetInvoiceForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := s.guard.Authorize("invoice", id, cur.Owner, actor); err != nil {
			return err
		}

		if err := s.repo.UpdateInvoiceStatus(ctx, id, status); err != nil {
			return err
		}

		cur.Status = status
		inv = cur

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "invoice status changed", "invoice_id", id, "status", status)

	s.announce(ctx, inv, ActionStatusChanged)

	return nil
}
