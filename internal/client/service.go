package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context, owner string) ([]*Client, error)
}

type Service struct {
	repo  Repository
	guard *domain.Guard
	log   *slog.Logger
}

func NewService(log *slog.Logger, repo Repository, guard *domain.Guard) *Service {
	return &Service{
		repo:  repo,
		guard: guard,
		log:   log.With("service", "client"),
	}
}

type CreateParams struct {
	Name        string
	Email       string
	Phone       string
	Postcode    string
	HouseNumber string
	Street      string
	City        string
}

func (p CreateParams) validate() error {
	var v domain.Validator

	v.Check(strings.TrimSpace(p.Name) != "", "name", "is required")

	if strings.TrimSpace(p.Email) == "" {
		v.Add("email", "is required")
	} else if _, err := mail.ParseAddress(p.Email); err != nil {
		v.Add("email", "is not a valid address")
	}

	return v.Err()
}

// Create stores a new client owned by the acting identity.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Client, error) {
	owner, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		Name:        strings.TrimSpace(params.Name),
		Email:       strings.TrimSpace(params.Email),
		Phone:       strings.TrimSpace(params.Phone),
		Postcode:    strings.ToUpper(strings.ReplaceAll(params.Postcode, " ", "")),
		HouseNumber: strings.TrimSpace(params.HouseNumber),
		Street:      strings.TrimSpace(params.Street),
		City:        strings.TrimSpace(params.City),
		Owner:       owner,
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.log.InfoContext(ctx, "client created", "client_id", c.ID, "owner", owner)

	return c, nil
}

// Get returns a client owned by the acting identity.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize("client", id, c.Owner, actor); err != nil {
		return nil, err
	}

	return c, nil
}

// List returns the acting identity's clients.
func (s *Service) List(ctx context.Context) ([]*Client, error) {
	actor, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	return s.repo.ListClients(ctx, actor)
}
