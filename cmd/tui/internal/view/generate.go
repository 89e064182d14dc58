package view

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/domain"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

type generateState int

const (
	generateStateLoading generateState = iota
	generateStateSelect
	generateStateWorking
	generateStateResult
)

// GenerateModel bills all unbilled hours of one client.
type GenerateModel struct {
	CommonModel

	state    generateState
	form     *huh.Form
	clientID *uuid.UUID
	spinner  spinner.Model

	invoice *invoice.Invoice
	err     error
}

func NewGenerateModel(session Session) GenerateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return GenerateModel{
		CommonModel: CommonModel{Session: session},
		clientID:    new(uuid.UUID),
		spinner:     s,
	}
}

func (m GenerateModel) Title() string { return "Generate Invoice" }

func (m GenerateModel) ShortHelp() string {
	return "Esc: back | Enter: confirm"
}

func (m GenerateModel) Init() tea.Cmd {
	return loadClientsCmd(m.Session)
}

func (m GenerateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.state != generateStateWorking {
		return m, Back
	}

	switch msg := msg.(type) {
	case loadClientsMsg:
		if msg.err == nil && len(msg.clients) == 0 {
			msg.err = errors.New("no clients yet")
		}

		if msg.err != nil {
			m.state = generateStateResult
			m.err = msg.err

			return m, nil
		}

		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[uuid.UUID]().
					Title("Bill all unbilled hours of").
					Options(clientOptions(msg.clients)...).
					Value(m.clientID),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = generateStateSelect

		return m, m.form.Init()

	case generateResultMsg:
		m.state = generateStateResult
		m.invoice = msg.invoice
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case generateStateSelect:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = generateStateWorking

		return m, tea.Batch(m.spinner.Tick, m.generateCmd(*m.clientID))

	case generateStateWorking:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m GenerateModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case generateStateLoading:
		return style.Render("Loading clients...")
	case generateStateSelect:
		return style.Render(m.form.View())
	case generateStateWorking:
		return style.Render(m.spinner.View() + " Generating invoice...")
	case generateStateResult:
		if errors.Is(m.err, domain.ErrNoUnbilledHours) {
			return style.Render("Nothing to bill: this client has no unbilled hours.\n\n(Esc to go back)")
		}

		if m.err != nil {
			return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
		}

		inv := m.invoice

		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			successStyle("Invoice "+inv.Number+" created"),
			"",
			fmt.Sprintf("Client:  %s", inv.ReceiverName),
			fmt.Sprintf("Items:   %d", len(inv.Items)),
			fmt.Sprintf("Total:   %s €", FormatMoney(inv.Total)),
			fmt.Sprintf("Due:     %s", FormatDate(inv.DueDate)),
			"",
			"(Esc to go back)",
		))
	}

	return ""
}

type generateResultMsg struct {
	invoice *invoice.Invoice
	err     error
}

func (m GenerateModel) generateCmd(clientID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.Session.Ctx(dbTimeout)
		defer cancel()

		inv, err := m.Session.Svc.Invoices.AutoGenerate(ctx, clientID)

		return generateResultMsg{invoice: inv, err: err}
	}
}
