package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/config"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	"github.com/MrJamesThe3rd/tally/internal/http/client"
	"github.com/MrJamesThe3rd/tally/internal/http/export"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tally/internal/http/invoice"
	"github.com/MrJamesThe3rd/tally/internal/http/matching"
	"github.com/MrJamesThe3rd/tally/internal/http/project"
	"github.com/MrJamesThe3rd/tally/internal/http/push"
	"github.com/MrJamesThe3rd/tally/internal/http/timeentry"
	"github.com/MrJamesThe3rd/tally/internal/memstore"
)

type api struct {
	t      *testing.T
	server *httptest.Server
	jwt    *auth.JWTManager
}

func newAPI(t *testing.T) *api {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Billing.SenderName = "Tally BV"
	cfg.Billing.PaymentTermDays = 14

	svc := app.NewServices(log, cfg, app.Memory(memstore.New()))
	svc.Invoices.WithClock(func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) })

	jwt := auth.NewJWTManager("0123456789abcdef0123456789abcdef", "tally", time.Hour)

	router := tallyHttp.New(tallyHttp.Handlers{
		Clients:     client.NewHandler(svc.Clients),
		Projects:    project.NewHandler(svc.Projects),
		TimeEntries: timeentry.NewHandler(svc.Entries),
		Invoices:    invoice.NewHandler(svc.Invoices),
		Import:      importcsv.NewHandler(svc.Import),
		Matching:    matching.NewHandler(svc.Matching),
		Export:      export.NewHandler(svc.Export),
		Push:        push.NewHandler(log, jwt, svc.Dispatcher, svc.Guard, push.Options{Buffer: 4}),
	}, jwt, tallyHttp.Options{AllowedOrigins: []string{"*"}, RequestTimeout: 5 * time.Second})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &api{t: t, server: srv, jwt: jwt}
}

func (a *api) do(identity, method, path string, body any) *http.Response {
	a.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)

		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.server.URL+path, r)
	require.NoError(a.t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	a.authorize(req, identity)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func (a *api) authorize(req *http.Request, identity string) {
	a.t.Helper()

	if identity == "" {
		return
	}

	token, err := a.jwt.GenerateAccessToken(identity)
	require.NoError(a.t, err)

	req.Header.Set("Authorization", "Bearer "+token)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

type idResponse struct {
	ID string `json:"id"`
}

func (a *api) createClient(identity string) string {
	a.t.Helper()

	resp := a.do(identity, http.MethodPost, "/api/v1/clients", map[string]any{
		"name": "Klant A", "email": "klanta@example.com",
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	return decode[idResponse](a.t, resp).ID
}

func (a *api) logHours(identity, clientID, date string, hours int, rate string) string {
	a.t.Helper()

	resp := a.do(identity, http.MethodPost, "/api/v1/time-entries", map[string]any{
		"description": "Werk", "hours": hours, "hourly_rate": rate, "date": date, "client_id": clientID,
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	return decode[idResponse](a.t, resp).ID
}

func TestRouter_Healthz(t *testing.T) {
	a := newAPI(t)

	resp := a.do("", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RequiresToken(t *testing.T) {
	a := newAPI(t)

	resp := a.do("", http.MethodGet, "/api/v1/invoices", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

type invoiceBody struct {
	ID          string `json:"id"`
	Number      string `json:"invoice_number"`
	SenderName  string `json:"sender_name"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	Items       []struct {
		Subtotal string `json:"subtotal"`
		Date     string `json:"date"`
	} `json:"items"`
}

func TestRouter_InvoiceLifecycle(t *testing.T) {
	a := newAPI(t)

	clientID := a.createClient("alice")
	a.logHours("alice", clientID, "2025-03-03", 3, "50.00")
	a.logHours("alice", clientID, "2025-03-04", 2, "50.00")

	resp := a.do("alice", http.MethodPost, "/api/v1/invoices/auto-generate", map[string]any{"client_id": clientID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	inv := decode[invoiceBody](t, resp)
	assert.Equal(t, "INV-2025-0001", inv.Number)
	assert.Equal(t, "Tally BV", inv.SenderName)
	assert.Equal(t, "250.00", inv.TotalAmount)
	assert.Equal(t, "2025-03-24", inv.DueDate)
	assert.Equal(t, "UNPAID", inv.Status)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "2025-03-03", inv.Items[0].Date)

	resp = a.do("alice", http.MethodPost, "/api/v1/invoices/auto-generate", map[string]any{"client_id": clientID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do("bob", http.MethodGet, "/api/v1/invoices/"+inv.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do("alice", http.MethodPatch, "/api/v1/invoices/"+inv.ID+"/status/paid", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do("alice", http.MethodPatch, "/api/v1/invoices/"+inv.ID+"/status", map[string]any{"status": "LATE"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do("alice", http.MethodGet, "/api/v1/invoices?status=PAID", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]invoiceBody](t, resp), 1)

	resp = a.do("alice", http.MethodDelete, "/api/v1/invoices/"+inv.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do("alice", http.MethodGet, "/api/v1/time-entries/unbilled/"+clientID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]idResponse](t, resp), 2)
}

func TestRouter_CreateInvoiceValidation(t *testing.T) {
	a := newAPI(t)

	resp := a.do("alice", http.MethodPost, "/api/v1/invoices", map[string]any{
		"receiver_name": "Klant A",
		"issue_date":    "2025-03-10",
		"due_date":      "2025-03-01",
		"items":         []any{},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[struct {
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}](t, resp)
	assert.NotEmpty(t, body.Fields)
}

func TestRouter_BilledEntryIsReadOnly(t *testing.T) {
	a := newAPI(t)

	clientID := a.createClient("alice")
	entryID := a.logHours("alice", clientID, "2025-03-03", 3, "50")

	resp := a.do("alice", http.MethodPost, "/api/v1/invoices/auto-generate", map[string]any{"client_id": clientID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do("alice", http.MethodPatch, "/api/v1/time-entries/"+entryID, map[string]any{"hours": 4})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = a.do("alice", http.MethodDelete, "/api/v1/time-entries/"+entryID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_ProjectOverHours(t *testing.T) {
	a := newAPI(t)

	clientID := a.createClient("alice")

	resp := a.do("alice", http.MethodPost, "/api/v1/projects", map[string]any{
		"name": "Website", "client_id": clientID, "agreed_hours_limit": 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	projectID := decode[idResponse](t, resp).ID

	resp = a.do("alice", http.MethodPost, "/api/v1/time-entries", map[string]any{
		"description": "Bouw", "hours": 5, "hourly_rate": 60, "date": "2025-03-03",
		"client_id": clientID, "project_id": projectID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do("alice", http.MethodGet, "/api/v1/projects/"+projectID+"/over-hours", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decode[struct {
		TotalHours int  `json:"total_hours"`
		OverHours  bool `json:"over_hours"`
	}](t, resp)
	assert.Equal(t, 5, report.TotalHours)
	assert.True(t, report.OverHours)
}

func TestRouter_ImportAndExport(t *testing.T) {
	a := newAPI(t)

	clientID := a.createClient("alice")

	var form bytes.Buffer

	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("client_id", clientID))
	require.NoError(t, mw.WriteField("hourly_rate", "75"))

	fw, err := mw.CreateFormFile("file", "uren.csv")
	require.NoError(t, err)

	_, err = io.WriteString(fw, "Datum;Omschrijving;Uren;Tarief\n03-03-2025;Backend;4;\n04-03-2025;Overleg;1;90,00\n")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/api/v1/import", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	a.authorize(req, "alice")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	imported := decode[struct {
		Imported int `json:"imported"`
	}](t, resp)
	assert.Equal(t, 2, imported.Imported)

	resp = a.do("alice", http.MethodPost, "/api/v1/invoices/auto-generate", map[string]any{"client_id": clientID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "390.00", decode[invoiceBody](t, resp).TotalAmount)

	resp = a.do("alice", http.MethodPost, "/api/v1/export", map[string]any{"start_date": "2025-03-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decode[struct {
		TotalHours int    `json:"total_hours"`
		Total      string `json:"total_amount"`
	}](t, resp)
	assert.Equal(t, 5, summary.TotalHours)
	assert.Equal(t, "390.00", summary.Total)

	resp = a.do("alice", http.MethodPost, "/api/v1/export/download", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
}

func TestRouter_Matching(t *testing.T) {
	a := newAPI(t)

	resp := a.do("alice", http.MethodPost, "/api/v1/matching", map[string]string{
		"raw_pattern":           "jira",
		"preferred_description": "Development",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[idResponse](t, resp)

	resp = a.do("alice", http.MethodGet, "/api/v1/matching/suggest?raw_description=JIRA-7+login", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Development", decode[map[string]string](t, resp)["preferred_description"])

	resp = a.do("bob", http.MethodGet, "/api/v1/matching", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]idResponse](t, resp))

	resp = a.do("bob", http.MethodDelete, "/api/v1/matching/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do("alice", http.MethodDelete, "/api/v1/matching/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do("alice", http.MethodGet, "/api/v1/matching", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]idResponse](t, resp))
}
