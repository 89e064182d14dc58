package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectMappingColumns = `id, raw_pattern, preferred_description, created_by, created_at`

func scanMapping(s scanner) (*matching.Mapping, error) {
	var m matching.Mapping

	if err := s.Scan(&m.ID, &m.RawPattern, &m.PreferredDescription, &m.Owner, &m.CreatedAt); err != nil {
		return nil, err
	}

	return &m, nil
}

func (s *Store) FindMatch(ctx context.Context, owner, rawDescription string) (*matching.Mapping, error) {
	query := `SELECT ` + selectMappingColumns + `
		FROM description_mappings
		WHERE created_by = $1 AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1`

	m, err := scanMapping(database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query, owner, rawDescription))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("finding match: %w", err)
	}

	return m, nil
}

func (s *Store) CreateMapping(ctx context.Context, m *matching.Mapping) error {
	query := `
		INSERT INTO description_mappings (raw_pattern, preferred_description, created_by, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := database.QuerierFromCtx(ctx, s.db).
		QueryRowContext(ctx, query, m.RawPattern, m.PreferredDescription, m.Owner).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

func (s *Store) ListMappings(ctx context.Context, owner string) ([]*matching.Mapping, error) {
	query := `SELECT ` + selectMappingColumns + `
		FROM description_mappings
		WHERE created_by = $1
		ORDER BY raw_pattern ASC, created_at ASC`

	rows, err := database.QuerierFromCtx(ctx, s.db).QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}
	defer rows.Close()

	var out []*matching.Mapping

	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}

		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mapping rows: %w", err)
	}

	return out, nil
}

func (s *Store) GetMapping(ctx context.Context, id uuid.UUID) (*matching.Mapping, error) {
	query := `SELECT ` + selectMappingColumns + ` FROM description_mappings WHERE id = $1`

	m, err := scanMapping(database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, database.MapError(err, "mapping", id)
	}

	return m, nil
}

func (s *Store) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	res, err := database.QuerierFromCtx(ctx, s.db).ExecContext(ctx, `DELETE FROM description_mappings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}

	if n == 0 {
		return database.MapError(sql.ErrNoRows, "mapping", id)
	}

	return nil
}
