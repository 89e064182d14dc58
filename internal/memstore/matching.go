package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/matching"
)

// FindMatch mirrors the SQL store: case-insensitive substring match, longest
// pattern first, newest first on ties.
func (s *Store) FindMatch(ctx context.Context, owner, rawDescription string) (*matching.Mapping, error) {
	defer s.lock(ctx)()

	raw := strings.ToLower(rawDescription)

	var best *matching.Mapping

	for i := range s.data.mappings {
		m := &s.data.mappings[i]
		if m.Owner != owner || !strings.Contains(raw, strings.ToLower(m.RawPattern)) {
			continue
		}

		if best == nil || len(m.RawPattern) > len(best.RawPattern) ||
			(len(m.RawPattern) == len(best.RawPattern) && !m.CreatedAt.Before(best.CreatedAt)) {
			best = m
		}
	}

	if best == nil {
		return nil, nil
	}

	found := *best

	return &found, nil
}

func (s *Store) CreateMapping(ctx context.Context, m *matching.Mapping) error {
	defer s.lock(ctx)()

	m.ID = uuid.New()
	m.CreatedAt = s.now()

	s.data.mappings = append(s.data.mappings, *m)

	return nil
}

func (s *Store) ListMappings(ctx context.Context, owner string) ([]*matching.Mapping, error) {
	defer s.lock(ctx)()

	var out []*matching.Mapping

	for _, m := range s.data.mappings {
		if m.Owner == owner {
			out = append(out, &m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RawPattern < out[j].RawPattern
	})

	return out, nil
}

func (s *Store) GetMapping(ctx context.Context, id uuid.UUID) (*matching.Mapping, error) {
	defer s.lock(ctx)()

	for _, m := range s.data.mappings {
		if m.ID == id {
			return &m, nil
		}
	}

	return nil, fmt.Errorf("mapping %s: %w", id, domain.ErrNotFound)
}

func (s *Store) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	defer s.lock(ctx)()

	for i, m := range s.data.mappings {
		if m.ID == id {
			s.data.mappings = append(s.data.mappings[:i], s.data.mappings[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("mapping %s: %w", id, domain.ErrNotFound)
}
