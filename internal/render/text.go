package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"calpicker/internal/picker"
	"calpicker/internal/style"
)

const cellWidth = 4

// TextOptions controls the terminal rendering.
type TextOptions struct {
	Styles style.Terminal
	// Cursor is the day under the keyboard cursor; zero hides it.
	Cursor int
	// Plain disables styling, for pipes and tests.
	Plain bool
}

// Text renders the picker as a fixed-width block. In plain mode the
// selected day is wrapped in brackets (braces when it is also marked) and
// marked days carry a trailing '*'.
func Text(v picker.View, opts TextOptions) string {
	st := opts.Styles
	apply := func(s lipgloss.Style, text string) string {
		if opts.Plain {
			return text
		}
		return s.Render(text)
	}

	header := textHeader(v.Header, apply, st)
	labels := textLabels(v.Labels, apply, st)

	var rows []string
	if v.LabelsFirst {
		rows = append(rows, labels, header)
	} else {
		rows = append(rows, header, labels)
	}

	for _, week := range v.Grid {
		var b strings.Builder
		empty := true
		for _, c := range week {
			if !c.IsPlaceholder() {
				empty = false
			}
			b.WriteString(textCell(c, opts, apply))
		}
		if empty {
			continue
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(rows, "\n")
}

func textHeader(h picker.Header, apply func(lipgloss.Style, string) string, st style.Terminal) string {
	control := func(title string, disabled bool) string {
		if disabled {
			return apply(st.Disabled, title)
		}
		return apply(st.Control, title)
	}
	prev := control("< "+h.PreviousTitle, h.PreviousDisabled)
	next := control(h.NextTitle+" >", h.NextDisabled)
	title := apply(st.Title, h.Title)

	total := cellWidth * 7
	gap := total - lipgloss.Width(prev) - lipgloss.Width(next) - lipgloss.Width(title)
	left := max(gap/2, 1)
	right := max(gap-left, 1)
	return prev + strings.Repeat(" ", left) + title + strings.Repeat(" ", right) + next
}

func textLabels(labels []string, apply func(lipgloss.Style, string) string, st style.Terminal) string {
	var b strings.Builder
	for _, l := range labels {
		b.WriteString(apply(st.Label, fmt.Sprintf("%-*s", cellWidth, truncate(l, cellWidth-1))))
	}
	return strings.TrimRight(b.String(), " ")
}

func textCell(c picker.DayCell, opts TextOptions, apply func(lipgloss.Style, string) string) string {
	st := opts.Styles
	if c.IsPlaceholder() {
		return strings.Repeat(" ", cellWidth)
	}

	num := fmt.Sprintf("%2d", c.Day)
	state := c.State()
	mark := " "
	if c.Marked && state != picker.Disabled {
		mark = "*"
	}

	if opts.Plain {
		if state == picker.Selected {
			open, closing := "[", "]"
			if c.Marked {
				open, closing = "{", "}"
			}
			d := strings.TrimSpace(num)
			return open + d + closing + strings.Repeat(" ", cellWidth-len(d)-2)
		}
		return num + mark + " "
	}

	var s lipgloss.Style
	switch state {
	case picker.Selected:
		s = st.Selected
	case picker.Disabled:
		s = st.Disabled
	default:
		s = st.Day
		if c.Marked {
			s = st.Marked
		}
	}
	if opts.Cursor == c.Day {
		s = s.Inherit(st.Cursor)
	}
	return apply(s, num) + mark + " "
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
