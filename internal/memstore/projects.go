package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/project"
)

func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	defer s.lock(ctx)()

	if _, ok := s.data.clients[p.ClientID]; !ok {
		return fmt.Errorf("client %s: %w", p.ClientID, domain.ErrNotFound)
	}

	p.ID = uuid.New()
	p.CreatedAt = s.now()

	s.data.projects[p.ID] = *p
	s.data.stamp(p.ID)

	return nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	defer s.lock(ctx)()

	p, ok := s.data.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	return &p, nil
}

func (s *Store) ListProjects(ctx context.Context, clientID uuid.UUID) ([]*project.Project, error) {
	defer s.lock(ctx)()

	var out []*project.Project

	for _, p := range s.data.projects {
		if p.ClientID == clientID {
			out = append(out, &p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return s.data.order[out[i].ID] < s.data.order[out[j].ID]
	})

	return out, nil
}

func (s *Store) SumProjectHours(ctx context.Context, projectID uuid.UUID) (int, error) {
	defer s.lock(ctx)()

	total := 0

	for _, e := range s.data.entries {
		if e.ProjectID != nil && *e.ProjectID == projectID {
			total += e.Hours
		}
	}

	return total, nil
}
