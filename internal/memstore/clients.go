package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/domain"
)

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	defer s.lock(ctx)()

	c.ID = uuid.New()
	c.CreatedAt = s.now()

	s.data.clients[c.ID] = *c
	s.data.stamp(c.ID)

	return nil
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	defer s.lock(ctx)()

	c, ok := s.data.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}

	return &c, nil
}

func (s *Store) ListClients(ctx context.Context, owner string) ([]*client.Client, error) {
	defer s.lock(ctx)()

	var out []*client.Client

	for _, c := range s.data.clients {
		if c.Owner == owner {
			out = append(out, &c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return s.data.order[out[i].ID] < s.data.order[out[j].ID]
	})

	return out, nil
}
