package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/tally/internal/domain"
)

// Timeframe is a predefined or custom range of issue dates.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeThisQuarter
	TimeframeThisYear
	TimeframeLastYear
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisQuarter:
		return "This Quarter"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeLastYear:
		return "Last Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// dateRange returns the first and last day covered by tf, relative to today.
// Both are nil for TimeframeAll and TimeframeCustom.
func dateRange(tf Timeframe, today time.Time) (from, to *time.Time) {
	today = domain.Day(today)
	y, m := today.Year(), today.Month()

	var start, end time.Time

	switch tf {
	case TimeframeThisMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case TimeframeLastMonth:
		start = time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case TimeframeThisQuarter:
		first := time.Month((int(m)-1)/3*3 + 1)
		start = time.Date(y, first, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 3, -1)
	case TimeframeThisYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	case TimeframeLastYear:
		start = time.Date(y-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(y-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return nil, nil
	}

	return &start, &end
}

// TimeframeSelectedMsg is emitted once a range is chosen. From and To are
// nil for all time.
type TimeframeSelectedMsg struct {
	Label string
	From  *time.Time
	To    *time.Time
}

var errEndBeforeStart = errors.New("end date is before start date")

// parseCustomRange reads two YYYY-MM-DD values. Either may be left blank to
// leave that side open.
func parseCustomRange(rawFrom, rawTo string) (from, to *time.Time, err error) {
	parse := func(label, raw string) (*time.Time, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil
		}

		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s date (YYYY-MM-DD)", label)
		}

		return &t, nil
	}

	if from, err = parse("start", rawFrom); err != nil {
		return nil, nil, err
	}

	if to, err = parse("end", rawTo); err != nil {
		return nil, nil, err
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, errEndBeforeStart
	}

	return from, to, nil
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker lets the user pick an issue date range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	now      func() time.Time

	inputs     [2]textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker() TimeframePicker {
	var inputs [2]textinput.Model

	for i, prompt := range []string{"From: ", "To:   "} {
		in := textinput.New()
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = 10
		in.Width = 12
		in.Prompt = prompt
		inputs[i] = in
	}

	return TimeframePicker{
		selected: TimeframeThisMonth,
		now:      time.Now,
		inputs:   inputs,
	}
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == timeframeStateCustom {
			return m.updateInputs(msg)
		}

		return m, nil
	}

	if m.state == timeframeStateCustom {
		return m.updateCustom(keyMsg)
	}

	return m.updateSelect(keyMsg)
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > TimeframeThisMonth {
			m.selected--
		}
	case "down", "j":
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case "enter":
		if m.selected == TimeframeCustom {
			m.state = timeframeStateCustom
			m.focusIndex = 0
			m.inputs[0].Focus()

			return m, textinput.Blink
		}

		from, to := dateRange(m.selected, m.now())
		selected := TimeframeSelectedMsg{Label: m.selected.String(), From: from, To: to}

		return m, func() tea.Msg { return selected }
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.inputs[m.focusIndex].Blur()
		m.focusIndex = (m.focusIndex + 1) % len(m.inputs)
		m.inputs[m.focusIndex].Focus()

		return m, textinput.Blink

	case "enter":
		from, to, err := parseCustomRange(m.inputs[0].Value(), m.inputs[1].Value())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil
		selected := TimeframeSelectedMsg{Label: TimeframeCustom.String(), From: from, To: to}

		return m, func() tea.Msg { return selected }

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil
	}

	return m.updateInputs(msg)
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.state == timeframeStateCustom {
		b.WriteString("Custom range (blank leaves a side open):\n\n")
		b.WriteString(m.inputs[0].View() + "\n")
		b.WriteString(m.inputs[1].View() + "\n")
		b.WriteString("\n(Enter to confirm, Tab to switch, Esc to back)")
	} else {
		b.WriteString("Select timeframe:\n\n")

		for tf := TimeframeThisMonth; tf <= TimeframeCustom; tf++ {
			cursor := " "
			if tf == m.selected {
				cursor = activeStyle(">")
			}

			fmt.Fprintf(&b, "%s %s\n", cursor, tf)
		}

		b.WriteString("\n(Enter to select, Esc to back)")
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle("Error: "+m.err.Error()))
	}

	return b.String()
}

// IsSelecting reports whether the picker shows the preset list rather than
// the custom inputs.
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}
