package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/domain"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=project
type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, clientID uuid.UUID) ([]*Project, error)
	SumProjectHours(ctx context.Context, projectID uuid.UUID) (int, error)
}

// ClientReader resolves a client the acting identity owns.
type ClientReader interface {
	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
}

type Service struct {
	repo    Repository
	clients ClientReader
	log     *slog.Logger
}

func NewService(log *slog.Logger, repo Repository, clients ClientReader) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		log:     log.With("service", "project"),
	}
}

type CreateParams struct {
	Name             string
	ClientID         uuid.UUID
	AgreedHoursLimit *int
}

// Create adds a project to a client owned by the acting identity.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Project, error) {
	var v domain.Validator

	v.Check(strings.TrimSpace(params.Name) != "", "name", "is required")
	v.Check(params.ClientID != uuid.Nil, "client_id", "is required")
	v.Check(params.AgreedHoursLimit == nil || *params.AgreedHoursLimit >= 0, "agreed_hours_limit", "must not be negative")

	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.clients.Get(ctx, params.ClientID); err != nil {
		return nil, err
	}

	p := &Project{
		Name:             strings.TrimSpace(params.Name),
		ClientID:         params.ClientID,
		AgreedHoursLimit: params.AgreedHoursLimit,
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.InfoContext(ctx, "project created", "project_id", p.ID, "client_id", p.ClientID)

	return p, nil
}

// Get returns a project whose client is owned by the acting identity.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.clients.Get(ctx, p.ClientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}

		return nil, err
	}

	return p, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Project, error) {
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		return nil, err
	}

	return s.repo.ListProjects(ctx, clientID)
}

// OverHours reports whether the hours logged on a project exceed its agreed
// limit. A project without a limit is never over.
func (s *Service) OverHours(ctx context.Context, id uuid.UUID) (*HoursReport, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.SumProjectHours(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sum project hours: %w", err)
	}

	return &HoursReport{
		Project:    p,
		TotalHours: total,
		OverHours:  p.AgreedHoursLimit != nil && total > *p.AgreedHoursLimit,
	}, nil
}
