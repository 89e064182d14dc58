package importcsv

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/http/render"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type entryResponse struct {
	ID          uuid.UUID   `json:"id"`
	Description string      `json:"description"`
	Hours       int         `json:"hours"`
	HourlyRate  string      `json:"hourly_rate"`
	Date        render.Date `json:"date"`
	ClientID    uuid.UUID   `json:"client_id"`
	ProjectID   *uuid.UUID  `json:"project_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

type importSuccessResponse struct {
	Imported int             `json:"imported"`
	Entries  []entryResponse `json:"entries"`
}

type paramsDTO struct {
	Description string      `json:"description"`
	Hours       int         `json:"hours"`
	HourlyRate  string      `json:"hourly_rate"`
	Date        render.Date `json:"date"`
	ClientID    uuid.UUID   `json:"client_id"`
	ProjectID   *uuid.UUID  `json:"project_id,omitempty"`
}

// upload reads the multipart form: file, client_id, optional project_id and
// optional hourly_rate for rows without one.
func upload(w http.ResponseWriter, r *http.Request) (importer.Params, multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return importer.Params{}, nil, domain.NewValidationError("file", "failed to parse form: "+err.Error())
	}

	var (
		params importer.Params
		v      domain.Validator
	)

	clientID, err := uuid.Parse(r.FormValue("client_id"))
	v.Check(err == nil, "client_id", "must be a valid UUID")
	params.ClientID = clientID

	if s := r.FormValue("project_id"); s != "" {
		projectID, err := uuid.Parse(s)
		v.Check(err == nil, "project_id", "must be a valid UUID")
		params.ProjectID = &projectID
	}

	if s := r.FormValue("hourly_rate"); s != "" {
		rate, err := decimal.NewFromString(s)
		v.Check(err == nil && rate.IsPositive(), "hourly_rate", "must be a positive number")
		params.DefaultRate = rate
	}

	file, _, err := r.FormFile("file")
	v.Check(err == nil, "file", "is required")

	if err := v.Err(); err != nil {
		if file != nil {
			file.Close()
		}

		return importer.Params{}, nil, err
	}

	return params, file, nil
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	params, file, err := upload(w, r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer file.Close()

	entries, err := h.importSvc.Import(r.Context(), file, params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toSuccessResponse(entries))
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	params, file, err := upload(w, r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer file.Close()

	preview, err := h.importSvc.Preview(r.Context(), file, params)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	resp := make([]paramsDTO, 0, len(preview))
	for _, p := range preview {
		resp = append(resp, toParamsDTO(p))
	}

	render.JSON(w, http.StatusOK, resp)
}

func toSuccessResponse(entries []*timeentry.TimeEntry) importSuccessResponse {
	responses := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, entryResponse{
			ID:          e.ID,
			Description: e.Description,
			Hours:       e.Hours,
			HourlyRate:  e.HourlyRate.StringFixed(2),
			Date:        render.Date(e.Date),
			ClientID:    e.ClientID,
			ProjectID:   e.ProjectID,
			CreatedAt:   e.CreatedAt,
		})
	}

	return importSuccessResponse{
		Imported: len(entries),
		Entries:  responses,
	}
}

func toParamsDTO(p timeentry.CreateParams) paramsDTO {
	return paramsDTO{
		Description: p.Description,
		Hours:       p.Hours,
		HourlyRate:  p.HourlyRate.StringFixed(2),
		Date:        render.Date(p.Date),
		ClientID:    p.ClientID,
		ProjectID:   p.ProjectID,
	}
}
