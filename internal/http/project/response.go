package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/project"
)

type projectResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	ClientID         uuid.UUID `json:"client_id"`
	AgreedHoursLimit *int      `json:"agreed_hours_limit"`
	CreatedAt        time.Time `json:"created_at"`
}

type hoursResponse struct {
	ProjectID        uuid.UUID `json:"project_id"`
	AgreedHoursLimit *int      `json:"agreed_hours_limit"`
	TotalHours       int       `json:"total_hours"`
	OverHours        bool      `json:"over_hours"`
}

func toResponse(p *project.Project) projectResponse {
	return projectResponse{
		ID:               p.ID,
		Name:             p.Name,
		ClientID:         p.ClientID,
		AgreedHoursLimit: p.AgreedHoursLimit,
		CreatedAt:        p.CreatedAt,
	}
}
