package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

func (s *Store) CreateTimeEntry(ctx context.Context, e *timeentry.TimeEntry) error {
	defer s.lock(ctx)()

	return s.createEntry(e)
}

func (s *Store) CreateTimeEntries(ctx context.Context, entries []*timeentry.TimeEntry) error {
	defer s.lock(ctx)()

	for _, e := range entries {
		if err := s.createEntry(e); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) createEntry(e *timeentry.TimeEntry) error {
	if _, ok := s.data.clients[e.ClientID]; !ok {
		return fmt.Errorf("client %s: %w", e.ClientID, domain.ErrNotFound)
	}

	if e.ProjectID != nil {
		if _, ok := s.data.projects[*e.ProjectID]; !ok {
			return fmt.Errorf("project %s: %w", *e.ProjectID, domain.ErrNotFound)
		}
	}

	e.ID = uuid.New()
	e.CreatedAt = s.now()

	s.data.entries[e.ID] = *e
	s.data.stamp(e.ID)

	return nil
}

func (s *Store) GetTimeEntry(ctx context.Context, id uuid.UUID) (*timeentry.TimeEntry, error) {
	defer s.lock(ctx)()

	e, ok := s.data.entries[id]
	if !ok {
		return nil, fmt.Errorf("time entry %s: %w", id, domain.ErrNotFound)
	}

	return &e, nil
}

func (s *Store) ListTimeEntries(ctx context.Context, filter timeentry.ListFilter) ([]*timeentry.TimeEntry, error) {
	defer s.lock(ctx)()

	return s.filterEntries(func(e *timeentry.TimeEntry) bool {
		switch {
		case e.Owner != filter.Owner:
			return false
		case filter.ClientID != nil && e.ClientID != *filter.ClientID:
			return false
		case filter.ProjectID != nil && (e.ProjectID == nil || *e.ProjectID != *filter.ProjectID):
			return false
		case filter.StartDate != nil && e.Date.Before(*filter.StartDate):
			return false
		case filter.EndDate != nil && e.Date.After(*filter.EndDate):
			return false
		case filter.Unbilled && e.Billed():
			return false
		}

		return true
	}), nil
}

func (s *Store) UpdateTimeEntry(ctx context.Context, e *timeentry.TimeEntry) error {
	defer s.lock(ctx)()

	cur, ok := s.data.entries[e.ID]
	if !ok {
		return fmt.Errorf("time entry %s: %w", e.ID, domain.ErrNotFound)
	}

	if cur.Billed() {
		return fmt.Errorf("time entry %s is billed: %w", e.ID, domain.ErrConflict)
	}

	now := s.now()

	cur.Description = e.Description
	cur.Hours = e.Hours
	cur.HourlyRate = e.HourlyRate
	cur.Date = e.Date
	cur.ProjectID = e.ProjectID
	cur.UpdatedAt = &now

	s.data.entries[e.ID] = cur
	e.UpdatedAt = &now

	return nil
}

func (s *Store) DeleteTimeEntry(ctx context.Context, id uuid.UUID) error {
	defer s.lock(ctx)()

	cur, ok := s.data.entries[id]
	if !ok {
		return fmt.Errorf("time entry %s: %w", id, domain.ErrNotFound)
	}

	if cur.Billed() {
		return fmt.Errorf("time entry %s is billed: %w", id, domain.ErrConflict)
	}

	delete(s.data.entries, id)
	delete(s.data.order, id)

	return nil
}

func (s *Store) ListUnbilledForUpdate(ctx context.Context, clientID uuid.UUID, owner string) ([]*timeentry.TimeEntry, error) {
	defer s.lock(ctx)()

	return s.filterEntries(func(e *timeentry.TimeEntry) bool {
		return e.ClientID == clientID && e.Owner == owner && !e.Billed()
	}), nil
}

func (s *Store) GetTimeEntriesForUpdate(ctx context.Context, ids []uuid.UUID) ([]*timeentry.TimeEntry, error) {
	defer s.lock(ctx)()

	want := idSet(ids)

	return s.filterEntries(func(e *timeentry.TimeEntry) bool {
		return want[e.ID]
	}), nil
}

func (s *Store) ListInvoiceTimeEntries(ctx context.Context, invoiceID uuid.UUID) ([]*timeentry.TimeEntry, error) {
	defer s.lock(ctx)()

	return s.filterEntries(func(e *timeentry.TimeEntry) bool {
		return e.InvoiceID != nil && *e.InvoiceID == invoiceID
	}), nil
}

func (s *Store) AssignTimeEntries(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	defer s.lock(ctx)()

	if _, ok := s.data.invoices[invoiceID]; !ok {
		return 0, fmt.Errorf("invoice %s: %w", invoiceID, domain.ErrNotFound)
	}

	return s.relink(ids, func(e *timeentry.TimeEntry) bool { return !e.Billed() }, &invoiceID), nil
}

func (s *Store) ReleaseTimeEntries(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error) {
	defer s.lock(ctx)()

	return s.relink(ids, func(e *timeentry.TimeEntry) bool {
		return e.InvoiceID != nil && *e.InvoiceID == invoiceID
	}, nil), nil
}

func (s *Store) ReleaseInvoiceTimeEntries(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	defer s.lock(ctx)()

	var ids []uuid.UUID

	for id, e := range s.data.entries {
		if e.InvoiceID != nil && *e.InvoiceID == invoiceID {
			ids = append(ids, id)
		}
	}

	return s.relink(ids, func(*timeentry.TimeEntry) bool { return true }, nil), nil
}

// relink sets InvoiceID on every listed entry accepted by ok and returns how
// many were changed. Callers hold the lock.
func (s *Store) relink(ids []uuid.UUID, ok func(*timeentry.TimeEntry) bool, invoiceID *uuid.UUID) int64 {
	var n int64

	now := s.now()

	for _, id := range ids {
		e, found := s.data.entries[id]
		if !found || !ok(&e) {
			continue
		}

		if invoiceID != nil {
			linked := *invoiceID
			e.InvoiceID = &linked
		} else {
			e.InvoiceID = nil
		}

		e.UpdatedAt = &now
		s.data.entries[id] = e
		n++
	}

	return n
}

// filterEntries returns copies of matching entries ordered by date then
// insertion. Callers hold the lock.
func (s *Store) filterEntries(keep func(*timeentry.TimeEntry) bool) []*timeentry.TimeEntry {
	var out []*timeentry.TimeEntry

	for _, e := range s.data.entries {
		if keep(&e) {
			out = append(out, &e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}

		return s.data.order[out[i].ID] < s.data.order[out[j].ID]
	})

	return out
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set
}
