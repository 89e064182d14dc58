package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/domain"
)

type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusUnpaid, StatusPaid, StatusOverdue}

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusOverdue:
		return true
	}

	return false
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", domain.NewValidationError("status", "must be one of UNPAID, PAID, OVERDUE")
	}

	return s, nil
}

type Invoice struct {
	ID              uuid.UUID
	Number          string
	SenderName      string
	ReceiverName    string
	ReceiverContact string
	IssueDate       time.Time
	DueDate         time.Time
	Status          Status
	Total           decimal.Decimal
	Owner           string
	Items           []*Item
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// TimeEntryIDs returns the ids of the time entries billed by the invoice's items.
func (inv *Invoice) TimeEntryIDs() []uuid.UUID {
	var ids []uuid.UUID

	for _, it := range inv.Items {
		if it.TimeEntryID != nil {
			ids = append(ids, *it.TimeEntryID)
		}
	}

	return ids
}

type Item struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	HoursWorked int
	HourlyRate  decimal.Decimal
	Subtotal    decimal.Decimal
	TimeEntryID *uuid.UUID
	// Date is the linked time entry's date, if any.
	Date *time.Time
}
