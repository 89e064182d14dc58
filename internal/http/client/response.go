package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/client"
)

type clientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Postcode    string    `json:"postcode,omitempty"`
	HouseNumber string    `json:"house_number,omitempty"`
	Street      string    `json:"street,omitempty"`
	City        string    `json:"city,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Postcode:    c.Postcode,
		HouseNumber: c.HouseNumber,
		Street:      c.Street,
		City:        c.City,
		CreatedAt:   c.CreatedAt,
	}
}
