package view

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateLoading importState = iota
	importStateForm
	importStateFilePick
	importStateWorking
	importStatePreview
	importStateResult
)

type importInput struct {
	clientID uuid.UUID
	rate     string
}

type ImportModel struct {
	CommonModel

	state      importState
	clients    []*client.Client
	input      *importInput
	form       *huh.Form
	filePicker filepicker.Model

	path    string
	preview []timeentry.CreateParams
	table   table.Model

	status string
	err    error
}

func NewImportModel(session Session) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		CommonModel: CommonModel{Session: session},
		input:       &importInput{},
		filePicker:  fp,
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Description", Width: 40},
			{Title: "Hours", Width: 6},
			{Title: "Rate", Width: 10},
		}),
	}
}

func (m ImportModel) Title() string { return "Import Timesheet" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return loadClientsCmd(m.Session)
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadClientsMsg:
		if msg.err == nil && len(msg.clients) == 0 {
			msg.err = errors.New("add a client before importing hours")
		}

		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.clients = msg.clients
		m.form = m.buildForm()
		m.state = importStateForm

		return m, m.form.Init()

	case importPreviewMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.preview = msg.params
		m.refreshTable()
		m.state = importStatePreview

		return m, nil

	case importResultMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.state = importStateResult
		m.status = fmt.Sprintf("Imported %d time entries for %s.", msg.count, clientName(m.clients, m.input.clientID))

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview && msg.Type == tea.KeyEnter {
			m.state = importStateWorking
			m.status = "Saving time entries..."

			return m, m.importCmd()
		}
	}

	switch m.state {
	case importStateForm:
		return m.updateForm(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStatePreview:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) fail(err error) ImportModel {
	m.state = importStateResult
	m.err = err
	m.status = fmt.Sprintf("Error: %v", err)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Errors {
			m.status += fmt.Sprintf("\n  %s %s", f.Field, f.Message)
		}
	}

	return m
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStatePreview:
		m.form = m.buildForm()
		m.state = importStateForm

		return m, m.form.Init()
	case importStateWorking:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Title("Client").
				Options(clientOptions(m.clients)...).
				Value(&m.input.clientID),
			huh.NewInput().
				Title("Default hourly rate").
				Description("Used for rows without a rate column").
				Placeholder("75.00").
				Validate(validateRate(true)).
				Value(&m.input.rate),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateWorking
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.previewCmd()
	}

	return m, cmd
}

func (m *ImportModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.preview))
	for _, p := range m.preview {
		rows = append(rows, table.Row{
			FormatDate(p.Date),
			p.Description,
			fmt.Sprint(p.Hours),
			FormatMoney(p.HourlyRate),
		})
	}

	m.table.SetRows(rows)
}

func (m ImportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case importStateLoading:
		return style.Render("Loading clients...")
	case importStateForm:
		return style.Render(m.form.View())
	case importStateFilePick:
		return style.Render("Select timesheet (CSV):\n\n" + m.filePicker.View())
	case importStateWorking:
		return style.Render(m.status)
	case importStatePreview:
		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			fmt.Sprintf("%d entries for %s", len(m.preview), activeStyle(clientName(m.clients, m.input.clientID))),
			boxed(m.table.View()),
		))
	case importStateResult:
		if m.err != nil {
			return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
		}

		return style.Render(successStyle(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type importPreviewMsg struct {
	params []timeentry.CreateParams
	err    error
}

type importResultMsg struct {
	count int
	err   error
}

func (m ImportModel) params() importer.Params {
	p := importer.Params{ClientID: m.input.clientID}
	if rate, err := decimal.NewFromString(m.input.rate); err == nil {
		p.DefaultRate = rate
	}

	return p
}

func (m ImportModel) previewCmd() tea.Cmd {
	path, params := m.path, m.params()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importPreviewMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := m.Session.Ctx(importTimeout)
		defer cancel()

		preview, err := m.Session.Svc.Import.Preview(ctx, f, params)

		return importPreviewMsg{params: preview, err: err}
	}
}

func (m ImportModel) importCmd() tea.Cmd {
	path, params := m.path, m.params()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := m.Session.Ctx(importTimeout)
		defer cancel()

		entries, err := m.Session.Svc.Import.Import(ctx, f, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: len(entries)}
	}
}
