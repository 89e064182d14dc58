package invoice_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/memstore"
	"github.com/MrJamesThe3rd/tally/internal/notify"
	"github.com/MrJamesThe3rd/tally/internal/project"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
	"github.com/MrJamesThe3rd/tally/pkg/ctxutil"
)

var today = time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC)

type fixture struct {
	store      *memstore.Store
	clients    *client.Service
	entries    *timeentry.Service
	invoices   *invoice.Service
	dispatcher *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := domain.NewGuard(false)
	store := memstore.New()
	dispatcher := notify.NewDispatcher(log)

	clients := client.NewService(log, store, guard)
	projects := project.NewService(log, store, clients)
	entries := timeentry.NewService(log, store, clients, projects, store, guard)
	invoices := invoice.NewService(log, store, store, clients, store, dispatcher, guard, invoice.Options{
		SenderName:  "Tally BV",
		PaymentTerm: 14 * 24 * time.Hour,
	}).WithClock(func() time.Time { return today })

	return &fixture{
		store:      store,
		clients:    clients,
		entries:    entries,
		invoices:   invoices,
		dispatcher: dispatcher,
	}
}

func as(identity string) context.Context {
	return ctxutil.WithIdentity(context.Background(), identity)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) client(t *testing.T, owner, name, email string) *client.Client {
	t.Helper()

	c, err := f.clients.Create(as(owner), client.CreateParams{Name: name, Email: email})
	require.NoError(t, err)

	return c
}

func (f *fixture) entry(t *testing.T, owner string, clientID uuid.UUID, hours int, rate string) *timeentry.TimeEntry {
	t.Helper()

	e, err := f.entries.Create(as(owner), timeentry.CreateParams{
		Description: "Development",
		Hours:       hours,
		HourlyRate:  money(rate),
		Date:        today.AddDate(0, 0, -1),
		ClientID:    clientID,
	})
	require.NoError(t, err)

	return e
}

// listen registers a session for identity and returns a func that drains the
// events delivered to it so far.
func (f *fixture) listen(identity string) func() []invoice.Event {
	q := notify.NewQueue(32)
	f.dispatcher.Register(identity, q)

	return func() []invoice.Event {
		var events []invoice.Event

		for {
			select {
			case p := <-q.C():
				var ev invoice.Event
				if err := json.Unmarshal(p, &ev); err == nil {
					events = append(events, ev)
				}
			default:
				return events
			}
		}
	}
}

func manualInput(items ...invoice.ItemInput) invoice.CreateInput {
	return invoice.CreateInput{
		SenderName:   "Tally BV",
		ReceiverName: "Klant B",
		IssueDate:    today,
		DueDate:      today.AddDate(0, 0, 30),
		Items:        items,
	}
}
