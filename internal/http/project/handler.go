package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/project"
)

type Handler struct {
	svc *project.Service
}

func NewHandler(svc *project.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/over-hours", h.overHours)
}

type createRequest struct {
	Name             string    `json:"name"`
	ClientID         uuid.UUID `json:"client_id"`
	AgreedHoursLimit *int      `json:"agreed_hours_limit"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	p, err := h.svc.Create(r.Context(), project.CreateParams(req))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clientID, err := render.QueryID(r, "client_id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	if clientID == nil {
		render.Error(w, r, domain.NewValidationError("client_id", "is required"))
		return
	}

	projects, err := h.svc.ListByClient(r.Context(), *clientID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]projectResponse, len(projects))
	for i, p := range projects {
		resp[i] = toResponse(p)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) overHours(w http.ResponseWriter, r *http.Request) {
	id, err := render.URLID(r, "id")
	if err != nil {
		render.Error(w, r, err)
		return
	}

	report, err := h.svc.OverHours(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, hoursResponse{
		ProjectID:        report.Project.ID,
		AgreedHoursLimit: report.Project.AgreedHoursLimit,
		TotalHours:       report.TotalHours,
		OverHours:        report.OverHours,
	})
}
