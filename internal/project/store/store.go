package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/project"
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

func scanProject(s scanner) (*project.Project, error) {
	var (
		p     project.Project
		limit sql.NullInt32
	)

	if err := s.Scan(&p.ID, &p.Name, &p.ClientID, &limit, &p.CreatedAt); err != nil {
		return nil, err
	}

	if limit.Valid {
		l := int(limit.Int32)
		p.AgreedHoursLimit = &l
	}

	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (name, client_id, agreed_hours_limit, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query,
		p.Name, p.ClientID, p.AgreedHoursLimit,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return database.MapError(err, "client", p.ClientID)
	}

	return nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `
		SELECT id, name, client_id, agreed_hours_limit, created_at
		FROM projects
		WHERE id = $1
	`

	p, err := scanProject(database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, database.MapError(err, "project", id)
	}

	return p, nil
}

func (s *Store) ListProjects(ctx context.Context, clientID uuid.UUID) ([]*project.Project, error) {
	query := `
		SELECT id, name, client_id, agreed_hours_limit, created_at
		FROM projects
		WHERE client_id = $1
		ORDER BY created_at ASC
	`

	rows, err := database.QuerierFromCtx(ctx, s.db).QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}

func (s *Store) SumProjectHours(ctx context.Context, projectID uuid.UUID) (int, error) {
	var total int

	query := `SELECT COALESCE(SUM(hours), 0) FROM time_entries WHERE project_id = $1`
	if err := database.QuerierFromCtx(ctx, s.db).QueryRowContext(ctx, query, projectID).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing project hours: %w", err)
	}

	return total, nil
}
