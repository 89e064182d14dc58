package invoice

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// CreateInvoice stores the invoice header. Items are written by ReplaceItems.
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// GetInvoiceForUpdate is GetInvoice plus a row lock held until the transaction ends.
	GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status Status) error
	// DeleteInvoice removes the invoice and its items.
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []*Item) error
	NextInvoiceSequence(ctx context.Context) (int64, error)
}

// TimeEntryRepository is the slice of the time entry store the billing flows need.
type TimeEntryRepository interface {
	ListUnbilledForUpdate(ctx context.Context, clientID uuid.UUID, owner string) ([]*timeentry.TimeEntry, error)
	GetTimeEntriesForUpdate(ctx context.Context, ids []uuid.UUID) ([]*timeentry.TimeEntry, error)
	ListInvoiceTimeEntries(ctx context.Context, invoiceID uuid.UUID) ([]*timeentry.TimeEntry, error)
	AssignTimeEntries(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error)
	ReleaseTimeEntries(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) (int64, error)
	ReleaseInvoiceTimeEntries(ctx context.Context, invoiceID uuid.UUID) (int64, error)
}

type ClientReader interface {
	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	LockKey(ctx context.Context, key string) error
}

// Notifier delivers a payload to every live session of identity. It must not block.
type Notifier interface {
	Notify(ctx context.Context, identity string, payload []byte)
}

type Options struct {
	// SenderName is used as the sender on generated invoices. Empty falls
	// back to the generating identity.
	SenderName  string
	PaymentTerm time.Duration
}

type Service struct {
	repo     Repository
	entries  TimeEntryRepository
	clients  ClientReader
	tx       TxManager
	notifier Notifier
	guard    *domain.Guard
	opts     Options
	now      func() time.Time
	log      *slog.Logger
}

func NewService(
	log *slog.Logger,
	repo Repository,
	entries TimeEntryRepository,
	clients ClientReader,
	tx TxManager,
	notifier Notifier,
	guard *domain.Guard,
	opts Options,
) *Service {
	return &Service{
		repo:     repo,
		entries:  entries,
		clients:  clients,
		tx:       tx,
		notifier: notifier,
		guard:    guard,
		opts:     opts,
		now:      time.Now,
		log:      log.With("service", "invoice"),
	}
}

// WithClock replaces the clock used for issue dates and invoice numbers.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type ListFilter struct {
	Owner      string
	Status     *Status
	IssuedFrom *time.Time
	IssuedTo   *time.Time
}

func (s *Service) today() time.Time {
	return domain.Day(s.now())
}

func (s *Service) nextNumber(ctx context.Context, issued time.Time) (string, error) {
	seq, err := s.repo.NextInvoiceSequence(ctx)
	if err != nil {
		return "", err
	}

	return FormatNumber(issued.Year(), seq), nil
}
