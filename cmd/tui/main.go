package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/logger"
)

const logFile = "tally-tui.log"

type menuItem struct {
	key   string
	label string
	open  func(view.Session) view.View
}

var menu = []menuItem{
	{"1", "Unbilled Hours", func(s view.Session) view.View { return view.NewEntriesModel(s) }},
	{"2", "Import Timesheet", func(s view.Session) view.View { return view.NewImportModel(s) }},
	{"3", "Generate Invoice", func(s view.Session) view.View { return view.NewGenerateModel(s) }},
	{"4", "Invoices", func(s view.Session) view.View { return view.NewInvoicesModel(s) }},
	{"5", "Export Invoices", func(s view.Session) view.View { return view.NewExportModel(s) }},
}

type model struct {
	session view.Session
	current view.View
	width   int
	height  int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}

	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	for _, item := range menu {
		if msg.String() != item.key {
			continue
		}

		m.current = item.open(m.session)
		cmds := []tea.Cmd{m.current.Init()}

		if m.height > 0 {
			size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
			cmds = append(cmds, func() tea.Msg { return size })
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m model) View() string {
	if m.current == nil {
		var b strings.Builder

		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Tally") + "\n")
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("Signed in as "+m.session.Identity) + "\n\n")

		for _, item := range menu {
			fmt.Fprintf(&b, "%s. %s\n", item.key, item.label)
		}

		b.WriteString("\nq. Quit")

		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	header := lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(m.current.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(m.current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, header, m.current.View(), help)
}

func main() {
	if err := run(); err != nil {
		slog.Error("tui exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.TUI.Identity == "" {
		return errors.New("TUI_IDENTITY is required")
	}

	// The terminal belongs to the UI, so logs go to a file.
	f, err := tea.LogToFile(logFile, "")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	log := logger.NewWithWriter(cfg.Log, f)

	repos, closeRepos, err := app.OpenRepositories(cfg, log)
	if err != nil {
		return err
	}
	defer closeRepos()

	session := view.Session{
		Identity: cfg.TUI.Identity,
		Svc:      app.NewServices(log, cfg, repos),
	}

	p := tea.NewProgram(model{session: session}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
