package timeentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/project"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=timeentry
type Repository interface {
	CreateTimeEntry(ctx context.Context, e *TimeEntry) error
	CreateTimeEntries(ctx context.Context, entries []*TimeEntry) error
	GetTimeEntry(ctx context.Context, id uuid.UUID) (*TimeEntry, error)
	ListTimeEntries(ctx context.Context, filter ListFilter) ([]*TimeEntry, error)
	// UpdateTimeEntry and DeleteTimeEntry only touch unbilled rows and
	// return domain.ErrConflict when the entry was billed meanwhile.
	UpdateTimeEntry(ctx context.Context, e *TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id uuid.UUID) error
}

type ClientReader interface {
	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
}

type ProjectReader interface {
	Get(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo     Repository
	clients  ClientReader
	projects ProjectReader
	tx       TxManager
	guard    *domain.Guard
	log      *slog.Logger
}

func NewService(
	log *slog.Logger,
	repo Repository,
	clients ClientReader,
	projects ProjectReader,
	tx TxManager,
	guard *domain.Guard,
) *Service {
	return &Service{
		repo:     repo,
		clients:  clients,
		projects: projects,
		tx:       tx,
		guard:    guard,
		log:      log.With("service", "timeentry"),
	}
}

type CreateParams struct {
	Description string
	Hours       int
	HourlyRate  decimal.Decimal
	Date        time.Time
	ClientID    uuid.UUID
	ProjectID   *uuid.UUID
}

func (p CreateParams) check(v *domain.Validator, prefix string) {
	v.Check(strings.TrimSpace(p.Description) != "", prefix+"description", "is required")
	v.Check(p.Hours >= 1, prefix+"hours", "must be at least 1")
	v.Check(p.HourlyRate.IsPositive(), prefix+"hourly_rate", "must be greater than 0")
	v.Check(!p.Date.IsZero(), prefix+"date", "is required")
	v.Check(p.ClientID != uuid.Nil, prefix+"client_id", "is required")
}

type UpdateParams struct {
	Description *string
	Hours       *int
	HourlyRate  *decimal.Decimal
	Date        *time.Time
	ProjectID   *uuid.UUID
}

type ListFilter struct {
	Owner     string
	ClientID  *uuid.UUID
	ProjectID *uuid.UUID
	Unbilled  bool
	StartDate *time.Time
	EndDate   *time.Time
}

// Create logs a new unbilled entry for a client the acting identity owns.
func (s *Service) Create(ctx context.Context, params CreateParams) (*TimeEntry, error) {
	entries, err := s.CreateBatch(ctx, []CreateParams{params})
	if err != nil {
		return nil, err
	}

	return entries[0], nil
}

// CreateBatch validates and stores all entries in a single transaction, or none of them.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*TimeEntry, error) {
	owner, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if len(params) == 0 {
		return nil, nil
	}

	var v domain.Validator

	for i, p := range params {
		prefix := ""
		if len(params) > 1 {
			prefix = fmt.Sprintf("entries[%d].", i)
		}

		p.check(&v, prefix)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, params); err != nil {
		return nil, err
	}

	entries := make([]*TimeEntry, len(params))
	for i, p := range params {
		entries[i] = &TimeEntry{
			Description: strings.TrimSpace(p.Description),
			Hours:       p.Hours,
			HourlyRate:  p.HourlyRate,
			Date:        domain.Day(p.Date),
			ClientID:    p.ClientID,
			ProjectID:   p.ProjectID,
			Owner:       owner,
		}
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if len(entries) == 1 {
			return s.repo.CreateTimeEntry(ctx, entries[0])
		}

		return s.repo.CreateTimeEntries(ctx, entries)
	})
	if err != nil {
		return nil, fmt.Errorf("create time entries: %w", err)
	}

	s.log.InfoContext(ctx, "time entries created", "count", len(entries), "owner", owner)

	return entries, nil
}

// checkReferences verifies every client and project referenced is visible to
// the acting identity and that each project belongs to its entry's client.
func (s *Service) checkReferences(ctx context.Context, params []CreateParams) error {
	seenClients := make(map[uuid.UUID]bool)
	projectClient := make(map[uuid.UUID]uuid.UUID)

	for _, p := range params {
		if !seenClients[p.ClientID] {
			if _, err := s.clients.Get(ctx, p.ClientID); err != nil {
				return err
			}

			seenClients[p.ClientID] = true
		}

		if p.ProjectID == nil {
			continue
		}

		owner, ok := projectClient[*p.ProjectID]
		if !ok {
			proj, err := s.projects.Get(ctx, *p.ProjectID)
			if err != nil {
				return err
			}

			owner = proj.ClientID
			projectClient[*p.ProjectID] = owner
		}

		if owner != p.ClientID {
			return domain.NewValidationError("project_id", "does not belong to the client")
		}
	}

	return nil
}

// Get returns an entry owned by the acting identity.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TimeEntry, error) {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.repo.GetTimeEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize("time entry", id, e.Owner, actor); err != nil {
		return nil, err
	}

	return e, nil
}

// List returns the acting identity's entries; filter.Owner is always overwritten.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*TimeEntry, error) {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	filter.Owner = actor

	return s.repo.ListTimeEntries(ctx, filter)
}

// ListUnbilled returns the acting identity's unbilled entries for a client it owns.
func (s *Service) ListUnbilled(ctx context.Context, clientID uuid.UUID) ([]*TimeEntry, error) {
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		return nil, err
	}

	return s.List(ctx, ListFilter{ClientID: &clientID, Unbilled: true})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*TimeEntry, error) {
	var updated *TimeEntry

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		if e.Billed() {
			return fmt.Errorf("time entry %s is billed: %w", id, domain.ErrConflict)
		}

		if params.Description != nil {
			e.Description = strings.TrimSpace(*params.Description)
		}

		if params.Hours != nil {
			e.Hours = *params.Hours
		}

		if params.HourlyRate != nil {
			e.HourlyRate = *params.HourlyRate
		}

		if params.Date != nil {
			e.Date = domain.Day(*params.Date)
		}

		if params.ProjectID != nil {
			e.ProjectID = params.ProjectID
		}

		check := CreateParams{
			Description: e.Description,
			Hours:       e.Hours,
			HourlyRate:  e.HourlyRate,
			Date:        e.Date,
			ClientID:    e.ClientID,
			ProjectID:   e.ProjectID,
		}

		var v domain.Validator

		check.check(&v, "")

		if err := v.Err(); err != nil {
			return err
		}

		if params.ProjectID != nil {
			if err := s.checkReferences(ctx, []CreateParams{check}); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateTimeEntry(ctx, e); err != nil {
			return err
		}

		updated = e

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		if e.Billed() {
			return fmt.Errorf("time entry %s is billed: %w", id, domain.ErrConflict)
		}

		return s.repo.DeleteTimeEntry(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "delete time entry failed", "entry_id", id, "error", err)
		}

		return err
	}

	return nil
}
