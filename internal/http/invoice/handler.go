package invoice

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/auto-generate", h.autoGenerate)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}/status/{status}", h.updateStatus)
}

type itemRequest struct {
	Description string          `json:"description"`
	HoursWorked int             `json:"hours_worked"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	TimeEntryID *uuid.UUID      `json:"time_entry_id,omitempty"`
}

type invoiceRequest struct {
	Number          string        `json:"invoice_number"`
	SenderName      string        `json:"sender_name"`
	ReceiverName    string        `json:"receiver_name"`
	ReceiverContact string        `json:"receiver_contact"`
	IssueDate       render.Date   `json:"issue_date"`
	DueDate         render.Date   `json:"due_date"`
	Status          string        `json:"status"`
	Items           []itemRequest `json:"items"`
}

func (req invoiceRequest) toInput() invoice.CreateInput {
	in := invoice.CreateInput{
		Number:          req.Number,
		SenderName:      req.SenderName,
		ReceiverName:    req.ReceiverName,
		ReceiverContact: req.ReceiverContact,
		IssueDate:       req.IssueDate.Time(),
		DueDate:         req.DueDate.Time(),
		Status:          req.Status,
		Items:           make([]invoice.ItemInput, 0, len(req.Items)),
	}

	for _, it := range req.Items {
		in.Items = append(in.Items, invoice.ItemInput{
			Description: it.Description,
			HoursWorked: it.HoursWorked,
			HourlyRate:  it.HourlyRate,
			TimeEntryID: it.TimeEntryID,
		})
	}

	return in
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	inv, err := h.svc.Create(r.Context(), req.toInput())
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status, err := invoice.ParseStatus(s)
		if err != nil {
			render.Error(w, r, err)
			return
		}

		filter.Status = new(status)
	}

	var err error

	if filter.IssuedFrom, err = render.QueryDate(r, "start_date"); err != nil {
		render.Error(w, r, err)
		return
	}

	if filter.IssuedTo, err = render.QueryDate(r, "end_date"); err != nil {
		render.Error(w, r, err)
		return
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(invoices))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req invoiceRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	inv, err := h.svc.Update(r.Context(), id, invoice.UpdateInput(req.toInput()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(inv))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateStatus takes the new status from the path when present, otherwise
// from a {"status": ...} body.
func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	status := chi.URLParam(r, "status")
	if status == "" {
		var req updateStatusRequest
		if err := render.Decode(r, &req); err != nil {
			render.Error(w, r, err)
			return
		}

		status = req.Status
	}

	if err := h.svc.UpdateStatus(r.Context(), id, status); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type autoGenerateRequest struct {
	ClientID uuid.UUID `json:"client_id"`
}

func (h *Handler) autoGenerate(w http.ResponseWriter, r *http.Request) {
	var req autoGenerateRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	if req.ClientID == uuid.Nil {
		render.Error(w, r, domain.NewValidationError("client_id", "is required"))
		return
	}

	inv, err := h.svc.AutoGenerate(r.Context(), req.ClientID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(inv))
}
