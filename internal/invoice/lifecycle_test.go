package invoice_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

func TestAutoGenerate_SingleEntry(t *testing.T) {
	f := newFixture(t)
	ownerEvents := f.listen("user1")
	receiverEvents := f.listen("info@klant-a.nl")

	c := f.client(t, "user1", "Klant A", "info@klant-a.nl")
	e := f.entry(t, "user1", c.ID, 5, "50.00")

	inv, err := f.invoices.AutoGenerate(as("user1"), c.ID)
	require.NoError(t, err)

	assert.Equal(t, invoice.StatusUnpaid, inv.Status)
	assert.Equal(t, "Klant A", inv.ReceiverName)
	assert.Equal(t, "info@klant-a.nl", inv.ReceiverContact)
	assert.Equal(t, "Tally BV", inv.SenderName)
	assert.Equal(t, "user1", inv.Owner)
	assert.Equal(t, "INV-2025-0001", inv.Number)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), inv.IssueDate)
	assert.Equal(t, time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), inv.DueDate)
	assert.Equal(t, "250.00", inv.Total.StringFixed(2))

	require.Len(t, inv.Items, 1)
	assert.Equal(t, "250.00", inv.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, e.ID, *inv.Items[0].TimeEntryID)

	billed, err := f.entries.Get(as("user1"), e.ID)
	require.NoError(t, err)
	require.NotNil(t, billed.InvoiceID)
	assert.Equal(t, inv.ID, *billed.InvoiceID)

	unbilled, err := f.entries.ListUnbilled(as("user1"), c.ID)
	require.NoError(t, err)
	assert.Empty(t, unbilled)

	stored, err := f.invoices.Get(as("user1"), inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(invoice.ComputeTotal(stored.Items)))

	want := invoice.Event{
		Type:          invoice.EventType,
		Action:        invoice.ActionCreated,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.Number,
		Status:        invoice.StatusUnpaid,
	}
	assert.Equal(t, []invoice.Event{want}, ownerEvents())
	assert.Equal(t, []invoice.Event{want}, receiverEvents())
}

func TestAutoGenerate_SumsAllUnbilledEntries(t *testing.T) {
	f := newFixture(t)

	c := f.client(t, "user1", "Klant A", "info@klant-a.nl")
	f.entry(t, "user1", c.ID, 4, "25.00")
	f.entry(t, "user1", c.ID, 2, "62.50")

	inv, err := f.invoices.AutoGenerate(as("user1"), c.ID)
	require.NoError(t, err)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "225.00", inv.Total.StringFixed(2))
	assert.True(t, inv.Total.Equal(invoice.ComputeTotal(inv.Items)))
}

func TestAutoGenerate_NoUnbilledHours(t *testing.T) {
	f := newFixture(t)
	events := f.listen("user1")

	c := f.client(t, "user1", "Klant A", "info@klant-a.nl")

	_, err := f.invoices.AutoGenerate(as("user1"), c.ID)
	assert.ErrorIs(t, err, domain.ErrNoUnbilledHours)

	f.entry(t, "user1", c.ID, 1, "10.00")
	_, err = f.invoices.AutoGenerate(as("user1"), c.ID)
	require.NoError(t, err)

	_, err = f.invoices.AutoGenerate(as("user1"), c.ID)
	assert.ErrorIs(t, err, domain.ErrNoUnbilledHours)

	list, err := f.invoices.List(as("user1"), invoice.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, events(), 1)
}

func TestAutoGenerate_ClientOfAnotherOwner(t *testing.T) {
	f := newFixture(t)

	c := f.client(t, "bob", "Klant A", "info@klant-a.nl")
	f.entry(t, "bob", c.ID, 3, "40.00")

	_, err := f.invoices.AutoGenerate(as("alice"), c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	unbilled, err := f.entries.ListUnbilled(as("bob"), c.ID)
	require.NoError(t, err)
	assert.Len(t, unbilled, 1)
}

func TestAutoGenerate_ConcurrentCallsBillOnce(t *testing.T) {
	f := newFixture(t)

	c := f.client(t, "user1", "Klant A", "info@klant-a.nl")
	e := f.entry(t, "user1", c.ID, 5, "50.00")

	const callers = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []*invoice.Invoice
		errs    []error
	)

	for range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			inv, err := f.invoices.AutoGenerate(as("user1"), c.ID)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, err)
				return
			}

			winners = append(winners, inv)
		}()
	}

	wg.Wait()

	require.Len(t, winners, 1)
	require.Len(t, errs, callers-1)

	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrNoUnbilledHours)
	}

	billed, err := f.entries.Get(as("user1"), e.ID)
	require.NoError(t, err)
	require.NotNil(t, billed.InvoiceID)
	assert.Equal(t, winners[0].ID, *billed.InvoiceID)
}

func TestCreate_ComputesTotalAndNumbers(t *testing.T) {
	f := newFixture(t)
	events := f.listen("alice")

	first, err := f.invoices.Create(as("alice"), manualInput(
		invoice.ItemInput{Description: "Design", HoursWorked: 4, HourlyRate: money("25.00")},
		invoice.ItemInput{Description: "Review", HoursWorked: 2, HourlyRate: money("12.50")},
	))
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-0001", first.Number)
	assert.Equal(t, invoice.StatusUnpaid, first.Status)
	assert.Equal(t, "125.00", first.Total.StringFixed(2))
	assert.Equal(t, "100.00", first.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "25.00", first.Items[1].Subtotal.StringFixed(2))

	second, err := f.invoices.Create(as("alice"), manualInput(
		invoice.ItemInput{Description: "Support", HoursWorked: 1, HourlyRate: money("80")},
	))
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0002", second.Number)

	in := manualInput(invoice.ItemInput{Description: "Support", HoursWorked: 1, HourlyRate: money("80")})
	in.Number = first.Number

	_, err = f.invoices.Create(as("alice"), in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Len(t, events(), 2)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	item := invoice.ItemInput{Description: "Work", HoursWorked: 1, HourlyRate: money("10")}

	type testCase struct {
		name   string
		mutate func(in *invoice.CreateInput)
		field  string
	}

	tests := []testCase{
		{name: "NoItems", mutate: func(in *invoice.CreateInput) { in.Items = nil }, field: "items"},
		{name: "DueBeforeIssue", mutate: func(in *invoice.CreateInput) { in.DueDate = in.IssueDate.AddDate(0, 0, -1) }, field: "due_date"},
		{name: "UnknownStatus", mutate: func(in *invoice.CreateInput) { in.Status = "VOID" }, field: "status"},
		{name: "MissingReceiver", mutate: func(in *invoice.CreateInput) { in.ReceiverName = " " }, field: "receiver_name"},
		{name: "ZeroHours", mutate: func(in *invoice.CreateInput) { in.Items[0].HoursWorked = 0 }, field: "items[0].hours_worked"},
		{name: "ZeroRate", mutate: func(in *invoice.CreateInput) { in.Items[0].HourlyRate = money("0") }, field: "items[0].hourly_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := manualInput(item)
			tt.mutate(&in)

			_, err := f.invoices.Create(as("alice"), in)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)

			var fields []string
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}

			assert.Contains(t, fields, tt.field)
		})
	}

	list, err := f.invoices.List(as("alice"), invoice.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_BillsReferencedEntries(t *testing.T) {
	f := newFixture(t)

	c := f.client(t, "alice", "Klant A", "info@klant-a.nl")
	e := f.entry(t, "alice", c.ID, 3, "40.00")

	inv, err := f.invoices.Create(as("alice"), manualInput(
		invoice.ItemInput{Description: "Hours", HoursWorked: 3, HourlyRate: money("40.00"), TimeEntryID: &e.ID},
	))
	require.NoError(t, err)
	require.NotNil(t, inv.Items[0].Date)
	assert.Equal(t, e.Date, *inv.Items[0].Date)

	billed, err := f.entries.Get(as("alice"), e.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, *billed.InvoiceID)

	_, err = f.invoices.Create(as("alice"), manualInput(
		invoice.ItemInput{Description: "Again", HoursWorked: 3, HourlyRate: money("40.00"), TimeEntryID: &e.ID},
	))
	assert.ErrorIs(t, err, domain.ErrConflict)

	list, err := f.invoices.List(as("alice"), invoice.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_CannotBillAnotherOwnersEntry(t *testing.T) {
	f := newFixture(t)

	c := f.client(t, "bob", "Klant A", "info@klant-a.nl")
	e := f.entry(t, "bob", c.ID, 3, "40.00")

	_, err := f.invoices.Create(as("alice"), manualInput(
		invoice.ItemInput{Description: "Hours", HoursWorked: 3, HourlyRate: money("40.00"), TimeEntryID: &e.ID},
	))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	untouched, err := f.entries.Get(as("bob"), e.ID)
	require.NoError(t, err)
	assert.Nil(t, untouched.InvoiceID)
}

func TestUpdate_ReplacesItemsAndReleasesDroppedEntries(t *testing.T) {
	f := newFixture(t)
	events := f.listen("alice")

	c := f.client(t, "alice", "Klant A", "info@klant-a.nl")
	kept := f.entry(t, "alice", c.ID, 4, "25.00")
	dropped := f.entry(t, "alice", c.ID, 2, "50.00")

	inv, err := f.invoices.AutoGenerate(as("alice"), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "200.00", inv.Total.StringFixed(2))

	updated, err := f.invoices.Update(as("alice"), inv.ID, invoice.UpdateInput{
		SenderName:   inv.SenderName,
		ReceiverName: "Klant A BV",
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		Items: []invoice.ItemInput{
			{Description: "Development", HoursWorked: 4, HourlyRate: money("25.00"), TimeEntryID: &kept.ID},
			{Description: "Travel", HoursWorked: 1, HourlyRate: money("15.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, inv.Number, updated.Number)
	assert.Equal(t, invoice.StatusUnpaid, updated.Status)
	assert.Equal(t, "Klant A BV", updated.ReceiverName)
	assert.Equal(t, "115.50", updated.Total.StringFixed(2))

	stored, err := f.invoices.Get(as("alice"), inv.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Travel", stored.Items[1].Description)
	assert.True(t, stored.Total.Equal(invoice.ComputeTotal(stored.Items)))

	released, err := f.entries.Get(as("alice"), dropped.ID)
	require.NoError(t, err)
	assert.Nil(t, released.InvoiceID)

	stillBilled, err := f.entries.Get(as("alice"), kept.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, *stillBilled.InvoiceID)

	got := events()
	require.Len(t, got, 2)
	assert.Equal(t, invoice.ActionUpdated, got[1].Action)
}

func TestUpdate_Rejections(t *testing.T) {
	f := newFixture(t)

	c := f.client(t, "alice", "Klant A", "info@klant-a.nl")
	f.entry(t, "alice", c.ID, 4, "25.00")

	inv, err := f.invoices.AutoGenerate(as("alice"), c.ID)
	require.NoError(t, err)

	unlinked := f.entry(t, "alice", c.ID, 1, "25.00")

	base := invoice.UpdateInput{
		SenderName:   inv.SenderName,
		ReceiverName: inv.ReceiverName,
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
	}

	empty := base
	_, err = f.invoices.Update(as("alice"), inv.ID, empty)
	assert.ErrorIs(t, err, domain.ErrValidation)

	foreign := base
	foreign.Items = []invoice.ItemInput{
		{Description: "Sneaky", HoursWorked: 1, HourlyRate: money("25.00"), TimeEntryID: &unlinked.ID},
	}
	_, err = f.invoices.Update(as("alice"), inv.ID, foreign)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.invoices.Update(as("alice"), uuid.New(), foreign)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.invoices.Get(as("alice"), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", stored.Total.StringFixed(2))
	assert.Len(t, stored.Items, 1)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	events := f.listen("alice")

	inv, err := f.invoices.Create(as("alice"), manualInput(
		invoice.ItemInput{Description: "Work", HoursWorked: 2, HourlyRate: money("30")},
	))
	require.NoError(t, err)

	require.NoError(t, f.invoices.UpdateStatus(as("alice"), inv.ID, " paid "))

	stored, err := f.invoices.Get(as("alice"), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, stored.Status)
	assert.True(t, inv.Total.Equal(stored.Total))

	require.NoError(t, f.invoices.UpdateStatus(as("alice"), inv.ID, "UNPAID"))

	err = f.invoices.UpdateStatus(as("alice"), inv.ID, "refunded")
	assert.ErrorIs(t, err, domain.ErrValidation)

	got := events()
	require.Len(t, got, 3)
	assert.Equal(t, invoice.ActionStatusChanged, got[1].Action)
	assert.Equal(t, invoice.StatusPaid, got[1].Status)
	assert.Equal(t, invoice.StatusUnpaid, got[2].Status)
}

func TestDelete_RestoresEntries(t *testing.T) {
	f := newFixture(t)
	events := f.listen("alice")

	c := f.client(t, "alice", "Klant A", "info@klant-a.nl")
	e1 := f.entry(t, "alice", c.ID, 4, "25.00")
	e2 := f.entry(t, "alice", c.ID, 1, "25.00")

	inv, err := f.invoices.AutoGenerate(as("alice"), c.ID)
	require.NoError(t, err)

	require.NoError(t, f.invoices.Delete(as("alice"), inv.ID))

	_, err = f.invoices.Get(as("alice"), inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.store.GetInvoice(as("alice"), inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, id := range []uuid.UUID{e1.ID, e2.ID} {
		e, err := f.entries.Get(as("alice"), id)
		require.NoError(t, err)
		assert.Nil(t, e.InvoiceID)
	}

	unbilled, err := f.entries.ListUnbilled(as("alice"), c.ID)
	require.NoError(t, err)
	assert.Len(t, unbilled, 2)

	got := events()
	require.Len(t, got, 2)
	assert.Equal(t, invoice.ActionDeleted, got[1].Action)
	assert.Equal(t, inv.ID, got[1].InvoiceID)

	regenerated, err := f.invoices.AutoGenerate(as("alice"), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0002", regenerated.Number)
}

func TestOwnership_OtherUserCannotTouchInvoice(t *testing.T) {
	f := newFixture(t)
	aliceEvents := f.listen("alice")

	c := f.client(t, "bob", "Klant A", "info@klant-a.nl")
	e := f.entry(t, "bob", c.ID, 5, "50.00")

	inv, err := f.invoices.AutoGenerate(as("bob"), c.ID)
	require.NoError(t, err)

	alice := as("alice")

	_, err = f.invoices.Get(alice, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "invoice "+inv.ID.String()+": not found")

	err = f.invoices.Delete(alice, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.invoices.UpdateStatus(alice, inv.ID, "PAID")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.invoices.Update(alice, inv.ID, invoice.UpdateInput{
		SenderName:   "x",
		ReceiverName: "y",
		IssueDate:    today,
		DueDate:      today,
		Items:        []invoice.ItemInput{{Description: "z", HoursWorked: 1, HourlyRate: money("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.invoices.List(alice, invoice.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.entries.Get(alice, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.entries.Delete(alice, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := f.invoices.Get(as("bob"), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Status, stored.Status)
	assert.Equal(t, inv.Number, stored.Number)
	assert.True(t, inv.Total.Equal(stored.Total))
	assert.Len(t, stored.Items, 1)

	entry, err := f.entries.Get(as("bob"), e.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, *entry.InvoiceID)

	assert.Empty(t, aliceEvents())
}

func TestBilledEntriesAreImmutable(t *testing.T) {
	f := newFixture(t)

	c := f.client(t, "alice", "Klant A", "info@klant-a.nl")
	e := f.entry(t, "alice", c.ID, 5, "50.00")

	_, err := f.invoices.AutoGenerate(as("alice"), c.ID)
	require.NoError(t, err)

	hours := 8
	_, err = f.entries.Update(as("alice"), e.ID, timeentry.UpdateParams{Hours: &hours})
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = f.entries.Delete(as("alice"), e.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestList_FiltersByStatusAndDate(t *testing.T) {
	f := newFixture(t)

	item := invoice.ItemInput{Description: "Work", HoursWorked: 1, HourlyRate: money("10")}

	first, err := f.invoices.Create(as("alice"), manualInput(item))
	require.NoError(t, err)

	older := manualInput(item)
	older.IssueDate = today.AddDate(0, -2, 0)
	older.Status = "overdue"

	second, err := f.invoices.Create(as("alice"), older)
	require.NoError(t, err)

	all, err := f.invoices.List(as("alice"), invoice.ListFilter{Owner: "bob"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	overdue := invoice.StatusOverdue
	filtered, err := f.invoices.List(as("alice"), invoice.ListFilter{Status: &overdue})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)

	from := today.AddDate(0, 0, -7)
	recent, err := f.invoices.List(as("alice"), invoice.ListFilter{IssuedFrom: &from})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, first.ID, recent[0].ID)
}
