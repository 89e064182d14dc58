// Package memstore is an in-memory implementation of every repository in the
// module. It is used by STORE_DRIVER=memory and by service tests.
//
// All transactions are serialized behind a single mutex and roll back by
// restoring a snapshot taken when they began. Invoice numbers come from a
// counter that, like a database sequence, is never rolled back.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/project"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

var (
	_ client.Repository           = (*Store)(nil)
	_ project.Repository          = (*Store)(nil)
	_ timeentry.Repository        = (*Store)(nil)
	_ timeentry.TxManager         = (*Store)(nil)
	_ invoice.Repository          = (*Store)(nil)
	_ invoice.TimeEntryRepository = (*Store)(nil)
	_ invoice.TxManager           = (*Store)(nil)
	_ matching.Repository         = (*Store)(nil)
)

type txKey struct{}

type state struct {
	clients  map[uuid.UUID]client.Client
	projects map[uuid.UUID]project.Project
	entries  map[uuid.UUID]timeentry.TimeEntry
	invoices map[uuid.UUID]invoice.Invoice
	items    map[uuid.UUID][]invoice.Item
	numbers  map[string]uuid.UUID
	mappings []matching.Mapping
	// order records insertion order across all records.
	order map[uuid.UUID]int64
	tick  int64
}

func newState() *state {
	return &state{
		clients:  make(map[uuid.UUID]client.Client),
		projects: make(map[uuid.UUID]project.Project),
		entries:  make(map[uuid.UUID]timeentry.TimeEntry),
		invoices: make(map[uuid.UUID]invoice.Invoice),
		items:    make(map[uuid.UUID][]invoice.Item),
		numbers:  make(map[string]uuid.UUID),
		order:    make(map[uuid.UUID]int64),
	}
}

// clone copies every map. Records are stored by value, so a shallow copy of
// each is enough except for item slices.
func (s *state) clone() *state {
	c := newState()

	for k, v := range s.clients {
		c.clients[k] = v
	}

	for k, v := range s.projects {
		c.projects[k] = v
	}

	for k, v := range s.entries {
		c.entries[k] = v
	}

	for k, v := range s.invoices {
		c.invoices[k] = v
	}

	for k, v := range s.items {
		c.items[k] = append([]invoice.Item(nil), v...)
	}

	for k, v := range s.numbers {
		c.numbers[k] = v
	}

	for k, v := range s.order {
		c.order[k] = v
	}

	c.mappings = append([]matching.Mapping(nil), s.mappings...)
	c.tick = s.tick

	return c
}

func (s *state) stamp(id uuid.UUID) {
	s.tick++
	s.order[id] = s.tick
}

type Store struct {
	mu   sync.Mutex
	data *state
	seq  atomic.Int64
	now  func() time.Time
}

func New() *Store {
	return &Store{
		data: newState(),
		now:  time.Now,
	}
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock takes the store mutex unless ctx already runs inside RunInTx, which
// holds it. The returned func releases whatever was taken.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}

	s.mu.Lock()

	return s.mu.Unlock
}

// RunInTx runs fn with exclusive access to the store. Any error or panic
// restores the state seen when fn started. Nested calls join the outer one.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false

	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}

	committed = true

	return nil
}

// LockKey is satisfied by RunInTx's exclusive access; it only checks it is
// called inside one.
func (s *Store) LockKey(ctx context.Context, key string) error {
	if !inTx(ctx) {
		return fmt.Errorf("lock %q requires a transaction", key)
	}

	return nil
}
