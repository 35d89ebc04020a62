// Package tui hosts the picker in a terminal with Bubble Tea. Arrow keys
// move a cursor over the grid, enter taps the day under it, and n/p (or
// pgdown/pgup) page months.
package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"calpicker/internal/dateutil"
	appLog "calpicker/internal/log"
	"calpicker/internal/picker"
	"calpicker/internal/render"
	"calpicker/internal/style"
)

// DateChangedMsg carries a date emitted by the picker.
type DateChangedMsg struct {
	Date time.Time
}

// Model is the Bubble Tea model wrapping a picker.
type Model struct {
	picker *picker.Picker
	styles style.Terminal
	cursor int
	// emitted collects callback dates during one Update.
	emitted *[]time.Time
	last    time.Time
	chosen  bool
	plain   bool
}

// New builds a model around opts. OnDateChange in opts still fires; the
// model also records the last emitted date.
func New(opts picker.Options, styles style.Terminal) (Model, error) {
	emitted := &[]time.Time{}
	hostCallback := opts.OnDateChange
	opts.OnDateChange = func(t time.Time) {
		*emitted = append(*emitted, t)
		if hostCallback != nil {
			hostCallback(t)
		}
	}
	p, err := picker.New(opts)
	if err != nil {
		return Model{}, err
	}
	return Model{
		picker:  p,
		styles:  styles,
		cursor:  p.Date().Day(),
		emitted: emitted,
		last:    p.Date(),
	}, nil
}

// WithPlain disables terminal styling.
func (m Model) WithPlain() Model {
	m.plain = true
	return m
}

// Date returns the last composite date.
func (m Model) Date() time.Time {
	return m.last
}

// Chosen reports whether the user confirmed with enter before quitting.
func (m Model) Chosen() bool {
	return m.chosen
}

// Cursor returns the day under the cursor.
func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-7)
	case "down", "j":
		m.moveCursor(7)
	case "n", "pgdown":
		if m.picker.Next() {
			m.clampCursor()
		}
	case "p", "pgup":
		if m.picker.Previous() {
			m.clampCursor()
		}
	case "enter", " ":
		if m.picker.TapDay(m.cursor) {
			m.chosen = true
		}
	}

	return m, m.flush()
}

// flush turns callback dates collected during this update into messages.
func (m *Model) flush() tea.Cmd {
	if len(*m.emitted) == 0 {
		return nil
	}
	dates := *m.emitted
	*m.emitted = nil
	m.last = dates[len(dates)-1]

	cmds := make([]tea.Cmd, 0, len(dates))
	for _, d := range dates {
		appLog.Debug("tui date changed", "date", d)
		cmds = append(cmds, func() tea.Msg { return DateChangedMsg{Date: d} })
	}
	return tea.Batch(cmds...)
}

func (m *Model) moveCursor(delta int) {
	s := m.picker.State()
	days := dateutil.DaysInMonth(s.Month, s.Year)
	next := m.cursor + delta
	if next < 1 || next > days {
		return
	}
	m.cursor = next
}

func (m *Model) clampCursor() {
	s := m.picker.State()
	days := dateutil.DaysInMonth(s.Month, s.Year)
	m.cursor = min(max(m.cursor, 1), days)
}

func (m Model) View() string {
	body := render.Text(m.picker.View(), render.TextOptions{
		Styles: m.styles,
		Cursor: m.cursor,
		Plain:  m.plain,
	})
	help := "←↑↓→ move • enter select • n/p month • q quit"
	selected := "Selected: " + m.last.Format("Mon, 02 Jan 2006")

	if m.plain {
		return strings.Join([]string{body, selected, help}, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Box.Render(body),
		selected,
		m.styles.Help.Render(help),
	)
}
