// Package app wires stores and services together for the binaries.
package app

import (
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/client"
	clientStore "github.com/MrJamesThe3rd/tally/internal/client/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/tally/internal/invoice/store"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/tally/internal/matching/store"
	"github.com/MrJamesThe3rd/tally/internal/memstore"
	"github.com/MrJamesThe3rd/tally/internal/notify"
	"github.com/MrJamesThe3rd/tally/internal/project"
	projectStore "github.com/MrJamesThe3rd/tally/internal/project/store"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
	timeEntryStore "github.com/MrJamesThe3rd/tally/internal/timeentry/store"
)

type EntryRepository interface {
	timeentry.Repository
	invoice.TimeEntryRepository
}

// Repositories is one backing store seen through every service's interface.
type Repositories struct {
	Clients  client.Repository
	Projects project.Repository
	Entries  EntryRepository
	Invoices invoice.Repository
	Matching matching.Repository
	Tx       invoice.TxManager
}

// OpenRepositories connects the store selected by cfg.App.StoreDriver. The
// returned close function releases it.
func OpenRepositories(cfg *config.Config, log *slog.Logger) (Repositories, func() error, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		log.Warn("using in-memory store, data is lost on exit")
		return Memory(memstore.New()), func() error { return nil }, nil
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return Repositories{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			db.Close()
			return Repositories{}, nil, err
		}
	}

	return Repositories{
		Clients:  clientStore.New(db),
		Projects: projectStore.New(db),
		Entries:  timeEntryStore.New(db),
		Invoices: invoiceStore.New(db),
		Matching: matchingStore.New(db),
		Tx:       database.NewTxManager(db),
	}, db.Close, nil
}

func Memory(store *memstore.Store) Repositories {
	return Repositories{
		Clients:  store,
		Projects: store,
		Entries:  store,
		Invoices: store,
		Matching: store,
		Tx:       store,
	}
}

type Services struct {
	Guard      *domain.Guard
	Dispatcher *notify.Dispatcher
	Clients    *client.Service
	Projects   *project.Service
	Entries    *timeentry.Service
	Invoices   *invoice.Service
	Matching   *matching.Service
	Import     *importer.Service
	Export     *export.Service
}

func NewServices(log *slog.Logger, cfg *config.Config, repos Repositories) *Services {
	guard := domain.NewGuard(cfg.Billing.FoldIdentityCase)
	dispatcher := notify.NewDispatcher(log)

	var (
		clients  = client.NewService(log, repos.Clients, guard)
		projects = project.NewService(log, repos.Projects, clients)
		entries  = timeentry.NewService(log, repos.Entries, clients, projects, repos.Tx, guard)
		match    = matching.NewService(repos.Matching, guard)
		invoices = invoice.NewService(log, repos.Invoices, repos.Entries, clients, repos.Tx, dispatcher, guard, invoice.Options{
			SenderName:  cfg.Billing.SenderName,
			PaymentTerm: cfg.PaymentTerm(),
		})
	)

	return &Services{
		Guard:      guard,
		Dispatcher: dispatcher,
		Clients:    clients,
		Projects:   projects,
		Entries:    entries,
		Invoices:   invoices,
		Matching:   match,
		Import:     importer.NewService(log, entries, match),
		Export:     export.NewService(invoices),
	}
}
