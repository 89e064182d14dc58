package timeentry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeEntry is a block of whole hours worked for a client. It is billed once
// an invoice claims it, after which it is read-only.
type TimeEntry struct {
	ID          uuid.UUID
	Description string
	Hours       int
	HourlyRate  decimal.Decimal
	Date        time.Time
	ClientID    uuid.UUID
	ProjectID   *uuid.UUID
	InvoiceID   *uuid.UUID
	Owner       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (e *TimeEntry) Billed() bool {
	return e.InvoiceID != nil
}

// Amount is hours times rate.
func (e *TimeEntry) Amount() decimal.Decimal {
	return e.HourlyRate.Mul(decimal.NewFromInt(int64(e.Hours)))
}
