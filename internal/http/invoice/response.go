package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type invoiceResponse struct {
	ID              uuid.UUID      `json:"id"`
	Number          string         `json:"invoice_number"`
	SenderName      string         `json:"sender_name"`
	ReceiverName    string         `json:"receiver_name"`
	ReceiverContact string         `json:"receiver_contact"`
	IssueDate       render.Date    `json:"issue_date"`
	DueDate         render.Date    `json:"due_date"`
	Status          invoice.Status `json:"status"`
	TotalAmount     string         `json:"total_amount"`
	Items           []itemResponse `json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       *time.Time     `json:"updated_at,omitempty"`
}

type itemResponse struct {
	ID          uuid.UUID    `json:"id"`
	Description string       `json:"description"`
	HoursWorked int          `json:"hours_worked"`
	HourlyRate  string       `json:"hourly_rate"`
	Subtotal    string       `json:"subtotal"`
	TimeEntryID *uuid.UUID   `json:"time_entry_id,omitempty"`
	Date        *render.Date `json:"date,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		SenderName:      inv.SenderName,
		ReceiverName:    inv.ReceiverName,
		ReceiverContact: inv.ReceiverContact,
		IssueDate:       render.Date(inv.IssueDate),
		DueDate:         render.Date(inv.DueDate),
		Status:          inv.Status,
		TotalAmount:     inv.Total.StringFixed(2),
		Items:           make([]itemResponse, 0, len(inv.Items)),
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}

	for _, it := range inv.Items {
		item := itemResponse{
			ID:          it.ID,
			Description: it.Description,
			HoursWorked: it.HoursWorked,
			HourlyRate:  it.HourlyRate.StringFixed(2),
			Subtotal:    it.Subtotal.StringFixed(2),
			TimeEntryID: it.TimeEntryID,
		}

		if it.Date != nil {
			item.Date = new(render.Date(*it.Date))
		}

		resp.Items = append(resp.Items, item)
	}

	return resp
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}
