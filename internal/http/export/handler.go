package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	StartDate *render.Date `json:"start_date,omitempty"`
	EndDate   *render.Date `json:"end_date,omitempty"`
}

func (req exportRequest) period() (from, to *time.Time, err error) {
	if req.StartDate != nil {
		from = new(req.StartDate.Time())
	}

	if req.EndDate != nil {
		to = new(req.EndDate.Time())
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, domain.NewValidationError("end_date", "must not be before start_date")
	}

	return from, to, nil
}

type invoiceResponse struct {
	ID           uuid.UUID      `json:"id"`
	Number       string         `json:"invoice_number"`
	ReceiverName string         `json:"receiver_name"`
	IssueDate    render.Date    `json:"issue_date"`
	Status       invoice.Status `json:"status"`
	TotalAmount  string         `json:"total_amount"`
}

type exportMetadataResponse struct {
	Invoices   []invoiceResponse `json:"invoices"`
	TotalHours int               `json:"total_hours"`
	Total      string            `json:"total_amount"`
	ByStatus   map[string]string `json:"total_by_status"`
	Summary    string            `json:"summary"`
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) (*export.Report, bool) {
	var req exportRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return nil, false
	}

	from, to, err := req.period()
	if err != nil {
		render.Error(w, r, err)
		return nil, false
	}

	report, err := h.svc.Export(r.Context(), from, to)
	if err != nil {
		render.Error(w, r, err)
		return nil, false
	}

	return report, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	resp := exportMetadataResponse{
		Invoices:   make([]invoiceResponse, 0, len(report.Invoices)),
		TotalHours: report.Hours,
		Total:      report.Total.StringFixed(2),
		ByStatus:   make(map[string]string, len(report.ByStatus)),
		Summary:    report.Summary(),
	}

	for _, inv := range report.Invoices {
		resp.Invoices = append(resp.Invoices, invoiceResponse{
			ID:           inv.ID,
			Number:       inv.Number,
			ReceiverName: inv.ReceiverName,
			IssueDate:    render.Date(inv.IssueDate),
			Status:       inv.Status,
			TotalAmount:  inv.Total.StringFixed(2),
		})
	}

	for st, total := range report.ByStatus {
		resp.ByStatus[string(st)] = total.StringFixed(2)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	// Buffer the archive so a write failure can still become a 500.
	var buf bytes.Buffer
	if err := report.WriteArchive(&buf); err != nil {
		render.Error(w, r, fmt.Errorf("building export archive: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"invoices_%s.zip\"", time.Now().Format("20060102")))

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write export archive", "error", err)
	}
}
