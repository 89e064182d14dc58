package invoice

import (
	"context"

	"github.com/google/uuid"
)

// Delete removes an invoice and its items. The time entries it billed are
// returned to unbilled, never deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return err
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

		if released, err = s.entries.ReleaseInvoiceTimeEntries(ctx, id); err != nil {
			return err
		}

		if err := s.repo.DeleteInvoice(ctx, id); err != nil {
			return err
		}

		inv = cur

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "invoice deleted", "invoice_id", id, "released_entries", released)

	s.announce(ctx, inv, ActionDeleted)

	return nil
}
