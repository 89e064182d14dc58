package view

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/client"
	"github.com/MrJamesThe3rd/tally/internal/timeentry"
)

type entriesState int

const (
	entriesStateBrowse entriesState = iota
	entriesStateForm
)

type entryInput struct {
	clientID    uuid.UUID
	description string
	hours       string
	rate        string
	date        string
}

// EntriesModel lists unbilled hours and logs new ones.
type EntriesModel struct {
	CommonModel

	state   entriesState
	table   table.Model
	entries []*timeentry.TimeEntry
	clients []*client.Client

	form  *huh.Form
	input *entryInput

	loading bool
	status  string
	err     error
}

func NewEntriesModel(session Session) EntriesModel {
	return EntriesModel{
		CommonModel: CommonModel{Session: session},
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Client", Width: 20},
			{Title: "Description", Width: 35},
			{Title: "Hours", Width: 6},
			{Title: "Rate", Width: 10},
			{Title: "Amount", Width: 10},
		}),
		loading: true,
	}
}

func (m EntriesModel) Title() string { return "Unbilled Hours" }

func (m EntriesModel) ShortHelp() string {
	if m.state == entriesStateForm {
		return "Enter: next | Esc: cancel"
	}

	return "Esc: back | n: log hours | x: delete | r: refresh"
}

func (m EntriesModel) Init() tea.Cmd {
	return tea.Batch(loadClientsCmd(m.Session), m.loadCmd())
}

func (m EntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadClientsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.clients = msg.clients
		m.refreshTable()

		return m, nil

	case loadEntriesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.entries = msg.entries
		m.refreshTable()

		return m, nil

	case entryActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
		}

		return m, m.loadCmd()
	}

	if m.state == entriesStateForm {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "n":
			if len(m.clients) == 0 {
				m.status = errorStyle("Add a client first.")
				return m, nil
			}

			m.input = &entryInput{date: time.Now().Format(time.DateOnly)}
			m.form = m.buildForm()
			m.state = entriesStateForm
			m.table.Blur()

			return m, m.form.Init()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m EntriesModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().
				Title("Client").
				Options(clientOptions(m.clients)...).
				Value(&m.input.clientID),
			huh.NewInput().
				Title("Description").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("required")
					}

					return nil
				}).
				Value(&m.input.description),
			huh.NewInput().
				Title("Hours").
				Description("Whole hours").
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n < 1 {
						return errors.New("enter a whole number of at least 1")
					}

					return nil
				}).
				Value(&m.input.hours),
			huh.NewInput().
				Title("Hourly rate").
				Validate(validateRate(false)).
				Value(&m.input.rate),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, s)
					return err
				}).
				Value(&m.input.date),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m EntriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = entriesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = entriesStateBrowse
	m.form = nil
	m.table.Focus()

	return m, m.createCmd(*m.input)
}

func (m EntriesModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return style.Render("Loading time entries...")
	}

	if m.err != nil {
		return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	total := decimal.Zero
	for _, e := range m.entries {
		total = total.Add(e.Amount())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%d unbilled entries, %s € outstanding", len(m.entries), activeStyle(FormatMoney(total))),
		boxed(m.table.View()),
	)

	if m.state == entriesStateForm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content += "\n" + m.status
	}

	return style.Render(content)
}

func (m *EntriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			clientName(m.clients, e.ClientID),
			e.Description,
			strconv.Itoa(e.Hours),
			FormatMoney(e.HourlyRate),
			FormatMoney(e.Amount()),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadEntriesMsg struct {
	entries []*timeentry.TimeEntry
	err     error
}

type entryActionMsg struct {
	status string
	err    error
}

func (m EntriesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.Session.Ctx(dbTimeout)
		defer cancel()

		entries, err := m.Session.Svc.Entries.List(ctx, timeentry.ListFilter{Unbilled: true})

		return loadEntriesMsg{entries: entries, err: err}
	}
}

func (m EntriesModel) createCmd(in entryInput) tea.Cmd {
	return func() tea.Msg {
		hours, _ := strconv.Atoi(in.hours)
		rate, _ := decimal.NewFromString(in.rate)
		date, _ := time.Parse(time.DateOnly, in.date)

		ctx, cancel := m.Session.Ctx(dbTimeout)
		defer cancel()

		entry, err := m.Session.Svc.Entries.Create(ctx, timeentry.CreateParams{
			Description: in.description,
			Hours:       hours,
			HourlyRate:  rate,
			Date:        date,
			ClientID:    in.clientID,
		})
		if err != nil {
			return entryActionMsg{err: err}
		}

		return entryActionMsg{status: successStyle(fmt.Sprintf("Logged %dh: %s", entry.Hours, entry.Description))}
	}
}

func (m EntriesModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.entries) {
		return nil
	}

	entry := m.entries[idx]

	return func() tea.Msg {
		ctx, cancel := m.Session.Ctx(dbTimeout)
		defer cancel()

		if err := m.Session.Svc.Entries.Delete(ctx, entry.ID); err != nil {
			return entryActionMsg{err: err}
		}

		return entryActionMsg{status: "Deleted " + entry.Description}
	}
}
