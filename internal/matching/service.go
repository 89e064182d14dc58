package matching

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
)

// Repository stores description mappings per owner.
type Repository interface {
	// FindMatch returns the owner's best mapping for rawDescription, or nil.
	// The longest contained pattern wins, then the newest.
	FindMatch(ctx context.Context, owner, rawDescription string) (*Mapping, error)
	CreateMapping(ctx context.Context, mapping *Mapping) error
	ListMappings(ctx context.Context, owner string) ([]*Mapping, error)
	GetMapping(ctx context.Context, id uuid.UUID) (*Mapping, error)
	DeleteMapping(ctx context.Context, id uuid.UUID) error
}

// Service remembers how a user prefers imported timesheet descriptions to be
// worded and suggests that wording for new rows.
type Service struct {
	repo  Repository
	guard *domain.Guard
}

func NewService(repo Repository, guard *domain.Guard) *Service {
	return &Service{repo: repo, guard: guard}
}

// Suggest returns the acting identity's preferred description for raw, or
// "" when none of its patterns match.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	owner, err := s.guard.Actor(ctx)
	if err != nil {
		return "", err
	}

	m, err := s.repo.FindMatch(ctx, owner, rawDescription)
	if err != nil || m == nil {
		return "", err
	}

	return m.PreferredDescription, nil
}

// Learn stores a mapping for the acting identity.
func (s *Service) Learn(ctx context.Context, rawPattern, preferredDescription string) (*Mapping, error) {
	owner, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	rawPattern = strings.TrimSpace(rawPattern)
	preferredDescription = strings.TrimSpace(preferredDescription)

	var v domain.Validator

	v.Check(rawPattern != "", "raw_pattern", "is required")
	v.Check(preferredDescription != "", "preferred_description", "is required")

	if err := v.Err(); err != nil {
		return nil, err
	}

	m := &Mapping{
		RawPattern:           rawPattern,
		PreferredDescription: preferredDescription,
		Owner:                owner,
	}

	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) List(ctx context.Context) ([]*Mapping, error) {
	owner, err := s.guard.Actor(ctx)
	if err != nil {
		return nil, err
	}

	return s.repo.ListMappings(ctx, owner)
}

// Forget deletes one of the acting identity's mappings.
func (s *Service) Forget(ctx context.Context, id uuid.UUID) error {
	acting, err := s.guard.Actor(ctx)
	if err != nil {
		return err
	}

	m, err := s.repo.GetMapping(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.Authorize("mapping", id, m.Owner, acting); err != nil {
		return err
	}

	return s.repo.DeleteMapping(ctx, id)
}
