package timeentry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

type Handler struct {
	svc *timeentry.Service
}

func NewHandler(svc *timeentry.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/unbilled/{clientID}", h.listUnbilled)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	Description string          `json:"description"`
	Hours       int             `json:"hours"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Date        render.Date     `json:"date"`
	ClientID    uuid.UUID       `json:"client_id"`
	ProjectID   *uuid.UUID      `json:"project_id,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	entry, err := h.svc.Create(r.Context(), timeentry.CreateParams{
		Description: req.Description,
		Hours:       req.Hours,
		HourlyRate:  req.HourlyRate,
		Date:        req.Date.Time(),
		ClientID:    req.ClientID,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(entry))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		filter timeentry.ListFilter
		err    error
	)

	q := r.URL.Query()
	filter.Unbilled = q.Get("unbilled") == "true"

	if filter.ClientID, err = render.QueryID(r, "client_id"); err != nil {
		render.Error(w, r, err)
		return
	}

	if filter.ProjectID, err = render.QueryID(r, "project_id"); err != nil {
		render.Error(w, r, err)
		return
	}

	if filter.StartDate, err = render.QueryDate(r, "start_date"); err != nil {
		render.Error(w, r, err)
		return
	}

	if filter.EndDate, err = render.QueryDate(r, "end_date"); err != nil {
		render.Error(w, r, err)
		return
	}

	entries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(entries))
}

func (h *Handler) listUnbilled(w http.ResponseWriter, r *http.Request) {
	clientID, err := render.URLID(r, "clientID")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	entries, err := h.svc.ListUnbilled(r.Context(), clientID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(entries))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(entry))
}

type updateRequest struct {
	Description *string          `json:"description"`
	Hours       *int             `json:"hours"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	Date        *render.Date     `json:"date"`
	ProjectID   *uuid.UUID       `json:"project_id"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	var req updateRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	params := timeentry.UpdateParams{
		Description: req.Description,
		Hours:       req.Hours,
		HourlyRate:  req.HourlyRate,
		ProjectID:   req.ProjectID,
	}

	if req.Date != nil {
		params.Date = new(req.Date.Time())
	}

	entry, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(entry))
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
