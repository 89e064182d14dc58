package view

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/notify"
)

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStateConfirmDelete
)

// statusFilters cycles with "s". The empty status means all.
var statusFilters = append([]invoice.Status{""}, invoice.Statuses...)

type InvoicesModel struct {
	CommonModel

	state    invoicesState
	table    table.Model
	invoices []*invoice.Invoice
	form     *huh.Form
	confirm  bool

	// events receives invoice changes made elsewhere, such as through the API
	// when both share a store.
	events *notify.Queue

	statusFilterIdx int
	loading         bool
	err             error
	status          string
}

func NewInvoicesModel(session Session) InvoicesModel {
	t := newTable([]table.Column{
		{Title: "Number", Width: 15},
		{Title: "Issued", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Client", Width: 25},
		{Title: "Total", Width: 12},
		{Title: "Status", Width: 10},
	})

	events := notify.NewQueue(8)
	session.Svc.Dispatcher.Register(session.Svc.Guard.Normalize(session.Identity), events)

	return InvoicesModel{
		CommonModel: CommonModel{Session: session},
		table:       t,
		events:      events,
		loading:     true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	if m.state == invoicesStateConfirmDelete {
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | s: status filter | p/u/o: mark paid/unpaid/overdue | x: delete | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitForEvent())
}

// Close stops live updates. It must be called when leaving the view.
func (m InvoicesModel) Close() {
	m.Session.Svc.Dispatcher.Unregister(m.events)
	m.events.Close()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.invoices = msg.invoices
			m.refreshTable()
		}

		return m, nil

	case invoiceEventMsg:
		if !msg.ok {
			return m, nil
		}

		m.status = fmt.Sprintf("%s %s", msg.event.InvoiceNumber, msg.event.Action)

		return m, tea.Batch(m.loadCmd(), m.waitForEvent())

	case invoiceActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == invoicesStateConfirmDelete {
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Close()
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			return m, m.loadCmd()
		case "p":
			return m, m.setStatusCmd(invoice.StatusPaid)
		case "u":
			return m, m.setStatusCmd(invoice.StatusUnpaid)
		case "o":
			return m, m.setStatusCmd(invoice.StatusOverdue)
		case "x":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoicesModel) enterConfirm() (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	m.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", inv.Number)).
				Description("Its time entries become unbilled again.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = invoicesStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m InvoicesModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = invoicesStateBrowse
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

	if !m.confirm {
		m.state = invoicesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd()
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	label := "All"
	if st := statusFilters[m.statusFilterIdx]; st != "" {
		label = string(st)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Filter: [s] Status: "+activeStyle(label)),
		boxed(m.table.View()),
	)

	if m.state == invoicesStateConfirmDelete && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.Number,
			FormatDate(inv.IssueDate),
			FormatDate(inv.DueDate),
			inv.ReceiverName,
			FormatMoney(inv.Total),
			string(inv.Status),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	filter := invoice.ListFilter{}
	if st := statusFilters[m.statusFilterIdx]; st != "" {
		filter.Status = new(st)
	}

	return func() tea.Msg {
		ctx, cancel := m.Session.Ctx(dbTimeout)
		defer cancel()

		invoices, err := m.Session.Svc.Invoices.List(ctx, filter)

		return loadInvoicesMsg{invoices: invoices, err: err}
	}
}

type invoiceActionMsg struct {
	err error
}

func (m InvoicesModel) setStatusCmd(status invoice.Status) tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := m.Session.Ctx(dbTimeout)
		defer cancel()

		return invoiceActionMsg{err: m.Session.Svc.Invoices.UpdateStatus(ctx, inv.ID, string(status))}
	}
}

func (m InvoicesModel) deleteCmd() tea.Cmd {
	inv := m.selected()
	if inv == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := m.Session.Ctx(dbTimeout)
		defer cancel()

		return invoiceActionMsg{err: m.Session.Svc.Invoices.Delete(ctx, inv.ID)}
	}
}

type invoiceEventMsg struct {
	event invoice.Event
	ok    bool
}

// waitForEvent blocks until the next invoice change arrives. ok is false
// once the queue has been closed.
func (m InvoicesModel) waitForEvent() tea.Cmd {
	events := m.events

	return func() tea.Msg {
		payload, ok := <-events.C()
		if !ok {
			return invoiceEventMsg{}
		}

		var ev invoice.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			return invoiceEventMsg{ok: true}
		}

		return invoiceEventMsg{event: ev, ok: true}
	}
}
