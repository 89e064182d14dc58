package timeentry

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

type entryResponse struct {
	ID          uuid.UUID   `json:"id"`
	Description string      `json:"description"`
	Hours       int         `json:"hours"`
	HourlyRate  string      `json:"hourly_rate"`
	Amount      string      `json:"amount"`
	Date        render.Date `json:"date"`
	ClientID    uuid.UUID   `json:"client_id"`
	ProjectID   *uuid.UUID  `json:"project_id,omitempty"`
	InvoiceID   *uuid.UUID  `json:"invoice_id,omitempty"`
	Billed      bool        `json:"billed"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

func toResponse(e *timeentry.TimeEntry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Description: e.Description,
		Hours:       e.Hours,
		HourlyRate:  e.HourlyRate.StringFixed(2),
		Amount:      e.Amount().StringFixed(2),
		Date:        render.Date(e.Date),
		ClientID:    e.ClientID,
		ProjectID:   e.ProjectID,
		InvoiceID:   e.InvoiceID,
		Billed:      e.Billed(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toResponseList(entries []*timeentry.TimeEntry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}
