package invoice

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const EventType = "invoice.changed"

type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionStatusChanged Action = "status_changed"
	ActionDeleted       Action = "deleted"
)

// Event is pushed to live sessions after an invoice mutation commits.
type Event struct {
	Type          string    `json:"type"`
	Action        Action    `json:"action"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Status        Status    `json:"status"`
}

// announce notifies the owner, and the receiver contact when it names a
// different identity. Failures are logged and never returned.
func (s *Service) announce(ctx context.Context, inv *Invoice, action Action) {
	if s.notifier == nil {
		return
	}

	payload, err := json.Marshal(Event{
		Type:          EventType,
		Action:        action,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.Number,
		Status:        inv.Status,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "encode invoice event", "invoice_id", inv.ID, "error", err)
		return
	}

	s.notifier.Notify(ctx, inv.Owner, payload)

	contact := s.guard.Normalize(inv.ReceiverContact)
	if contact != "" && !s.guard.Owns(inv.Owner, contact) {
		s.notifier.Notify(ctx, contact, payload)
	}
}
