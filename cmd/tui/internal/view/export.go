package view

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStatePath
	exportStateExporting
	exportStateResult
)

const exportTimeout = 2 * time.Minute

type ExportModel struct {
	CommonModel

	state           exportState
	err             error
	timeframePicker TimeframePicker
	selected        TimeframeSelectedMsg

	form    *huh.Form
	dir     *string
	spinner spinner.Model

	file    string
	summary string
}

func NewExportModel(session Session) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		CommonModel:     CommonModel{Session: session},
		timeframePicker: NewTimeframePicker(),
		dir:             new("./exports"),
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Export Invoices" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tf, ok := msg.(TimeframeSelectedMsg); ok {
		m.selected = tf
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Output directory").
					Description("Created if it does not exist").
					Placeholder("./exports").
					Value(m.dir),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = exportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd

	case exportStatePath:
		return m.updatePath(msg)

	case exportStateExporting:
		if result, ok := msg.(exportResultMsg); ok {
			m.state = exportStateResult
			m.err = result.err
			m.file = result.file
			m.summary = result.summary

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exportStateTimeframe
		m.timeframePicker = NewTimeframePicker()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(*m.dir))
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateTimeframe:
		return style.Render(m.timeframePicker.View())
	case exportStatePath:
		return style.Render(fmt.Sprintf("Period: %s\n\n%s", activeStyle(m.selected.Label), m.form.View()))
	case exportStateExporting:
		return style.Render(m.spinner.View() + " Exporting invoices...")
	case exportStateResult:
		if m.err != nil {
			return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
		}

		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(successStyle("Export complete")),
			"Written to "+m.file,
			"",
			m.summary,
		))
	}

	return ""
}

type exportResultMsg struct {
	file    string
	summary string
	err     error
}

func (m ExportModel) exportCmd(dir string) tea.Cmd {
	from, to := m.selected.From, m.selected.To

	return func() tea.Msg {
		ctx, cancel := m.Session.Ctx(exportTimeout)
		defer cancel()

		report, err := m.Session.Svc.Export.Export(ctx, from, to)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("create export directory: %w", err)}
		}

		path := filepath.Join(dir, fmt.Sprintf("invoices_%s.zip", time.Now().Format("20060102")))

		if err := writeArchive(path, report.WriteArchive); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{file: path, summary: report.Summary()}
	}
}

func writeArchive(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
	}()

	return write(f)
}
