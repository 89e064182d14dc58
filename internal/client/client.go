package client

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer that time is billed to.
type Client struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	Postcode    string
	HouseNumber string
	Street      string
	City        string
	Owner       string
	CreatedAt   time.Time
}
