package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	defer s.lock(ctx)()

	if _, taken := s.data.numbers[inv.Number]; taken {
		return fmt.Errorf("invoice %s: %w", inv.Number, domain.ErrConflict)
	}

	inv.ID = uuid.New()
	inv.CreatedAt = s.now()

	header := *inv
	header.Items = nil

	s.data.invoices[inv.ID] = header
	s.data.numbers[inv.Number] = inv.ID
	s.data.stamp(inv.ID)

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	defer s.lock(ctx)()

	return s.getInvoice(id)
}

func (s *Store) GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	defer s.lock(ctx)()

	return s.getInvoice(id)
}

func (s *Store) getInvoice(id uuid.UUID) (*invoice.Invoice, error) {
	inv, ok := s.data.invoices[id]
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}

	inv.Items = s.itemsOf(id)

	return &inv, nil
}

// itemsOf returns copies of an invoice's items with linked entry dates.
func (s *Store) itemsOf(id uuid.UUID) []*invoice.Item {
	stored := s.data.items[id]
	if len(stored) == 0 {
		return nil
	}

	items := make([]*invoice.Item, len(stored))

	for i, it := range stored {
		if it.TimeEntryID != nil {
			if e, ok := s.data.entries[*it.TimeEntryID]; ok {
				d := e.Date
				it.Date = &d
			}
		}

		items[i] = &it
	}

	return items
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	defer s.lock(ctx)()

	var out []*invoice.Invoice

	for _, inv := range s.data.invoices {
		switch {
		case inv.Owner != filter.Owner:
			continue
		case filter.Status != nil && inv.Status != *filter.Status:
			continue
		case filter.IssuedFrom != nil && inv.IssueDate.Before(*filter.IssuedFrom):
			continue
		case filter.IssuedTo != nil && inv.IssueDate.After(*filter.IssuedTo):
			continue
		}

		inv.Items = s.itemsOf(inv.ID)
		out = append(out, &inv)
	}

	sort.Slice(out, func(i, j int) bool {
		return s.data.order[out[i].ID] < s.data.order[out[j].ID]
	})

	return out, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	defer s.lock(ctx)()

	cur, ok := s.data.invoices[inv.ID]
	if !ok {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrNotFound)
	}

	if owner, taken := s.data.numbers[inv.Number]; taken && owner != inv.ID {
		return fmt.Errorf("invoice %s: %w", inv.Number, domain.ErrConflict)
	}

	now := s.now()

	delete(s.data.numbers, cur.Number)

	header := *inv
	header.Items = nil
	header.Owner = cur.Owner
	header.CreatedAt = cur.CreatedAt
	header.UpdatedAt = &now

	s.data.invoices[inv.ID] = header
	s.data.numbers[inv.Number] = inv.ID
	inv.UpdatedAt = &now

	return nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status invoice.Status) error {
	defer s.lock(ctx)()

	cur, ok := s.data.invoices[id]
	if !ok {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}

	now := s.now()
	cur.Status = status
	cur.UpdatedAt = &now

	s.data.invoices[id] = cur

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	defer s.lock(ctx)()

	cur, ok := s.data.invoices[id]
	if !ok {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}

	delete(s.data.items, id)
	delete(s.data.numbers, cur.Number)
	delete(s.data.invoices, id)
	delete(s.data.order, id)

	return nil
}

func (s *Store) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []*invoice.Item) error {
	defer s.lock(ctx)()

	if _, ok := s.data.invoices[invoiceID]; !ok {
		return fmt.Errorf("invoice %s: %w", invoiceID, domain.ErrNotFound)
	}

	stored := make([]invoice.Item, len(items))

	for i, it := range items {
		if it.TimeEntryID != nil {
			if _, ok := s.data.entries[*it.TimeEntryID]; !ok {
				return fmt.Errorf("time entry %s: %w", *it.TimeEntryID, domain.ErrNotFound)
			}
		}

		it.ID = uuid.New()
		it.InvoiceID = invoiceID

		stored[i] = *it
		stored[i].Date = nil
	}

	s.data.items[invoiceID] = stored

	return nil
}

// NextInvoiceSequence is not rolled back with the transaction, like a
// database sequence.
func (s *Store) NextInvoiceSequence(_ context.Context) (int64, error) {
	return s.seq.Add(1), nil
}
