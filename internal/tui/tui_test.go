package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calpicker/internal/picker"
	"calpicker/internal/style"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, opts picker.Options) Model {
	t.Helper()
	m, err := New(opts, style.NewTerminal(style.TerminalColors{}))
	require.NoError(t, err)
	return m.WithPlain()
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestMoveAndSelect(t *testing.T) {
	var got []time.Time
	m := newModel(t, picker.Options{
		SelectedDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		OnDateChange: func(d time.Time) { got = append(got, d) },
	})
	assert.Equal(t, 15, m.Cursor())

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, cmd)
	assert.Equal(t, 23, m.Cursor())

	m, cmd = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, m.Chosen())
	assert.Equal(t, time.Date(2024, time.March, 23, 0, 0, 0, 0, time.UTC), m.Date())
	assert.Equal(t, []time.Time{m.Date()}, got)
}

func TestCursorStaysInMonth(t *testing.T) {
	m := newModel(t, picker.Options{SelectedDate: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)})

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.Cursor())
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.Cursor())
}

func TestPageMonthsWraps(t *testing.T) {
	m := newModel(t, picker.Options{SelectedDate: time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)})

	m, cmd := send(m, runeKey("n"))
	assert.NotNil(t, cmd)
	assert.Equal(t, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), m.Date())

	m, _ = send(m, runeKey("n"))
	// Day 31 in February 2024 rolls over to March 2nd.
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), m.Date())
	assert.Equal(t, 29, m.Cursor())

	m, _ = send(m, runeKey("p"), runeKey("p"))
	assert.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), m.Date())
}

func TestDisabledDayIgnored(t *testing.T) {
	m := newModel(t, picker.Options{
		SelectedDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		MaxDate:      time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
	})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 22, m.Cursor())

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Chosen())

	// Next is disabled at the max month.
	m, cmd = send(m, runeKey("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), m.Date())
}

func TestQuit(t *testing.T) {
	m := newModel(t, picker.Options{SelectedDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)})
	_, cmd := send(m, runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	m := newModel(t, picker.Options{SelectedDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)})
	out := m.View()
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "[15]")
	assert.Contains(t, out, "Selected: Fri, 15 Mar 2024")
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := New(picker.Options{}, style.Terminal{})
	assert.ErrorIs(t, err, picker.ErrInvalidOptions)
}
