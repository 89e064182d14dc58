package invoice

import (
	"context"

	"github.com/google/uuid"
)

// Get returns an invoice with its items if the acting identity owns it.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize("invoice", id, inv.Owner, actor); err != nil {
		return nil, err
	}

	return inv, nil
}

// List returns the acting identity's invoices in insertion order.
// filter.Owner is always overwritten.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	filter.Owner = actor

	return s.repo.ListInvoices(ctx, filter)
}
