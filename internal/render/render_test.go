package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calpicker/internal/picker"
	"calpicker/internal/style"
)

func testView(t *testing.T, opts picker.Options) picker.View {
	t.Helper()
	if opts.SelectedDate.IsZero() {
		opts.SelectedDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	}
	p, err := picker.New(opts)
	require.NoError(t, err)
	return p.View()
}

func TestHTML(t *testing.T) {
	v := testView(t, picker.Options{
		MinDate:    time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
		MaxDate:    time.Date(2024, time.March, 28, 0, 0, 0, 0, time.UTC),
		MarkedDays: []time.Time{time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)},
		Appearance: picker.Appearance{SelectedDayColor: "#ff0000"},
	})

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, v, "/picker"))
	out := buf.String()

	assert.Contains(t, out, `data-ready="true"`)
	assert.Contains(t, out, `data-selected="2024-03-15"`)
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, `action="/picker/tap?day=10"`)
	assert.NotContains(t, out, `action="/picker/tap?day=2"`, "disabled days have no tap form")
	assert.Contains(t, out, `<div class="day disabled" data-day="2">2</div>`)
	assert.Contains(t, out, `<div class="day selected" data-day="15">`)
	assert.Contains(t, out, `class="marker"`)
	assert.Contains(t, out, "#ff0000")
	// Both controls are disabled: March is both the min and max month.
	assert.Contains(t, out, `<span class="control prev disabled">Previous</span>`)
	assert.Contains(t, out, `<span class="control next disabled">Next</span>`)
}

func TestHTMLLabelOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, testView(t, picker.Options{WeekdayLabelsFirst: true}), ""))
	out := buf.String()
	assert.Less(t, strings.Index(out, `class="labels"`), strings.Index(out, `class="header"`))

	buf.Reset()
	require.NoError(t, HTML(&buf, testView(t, picker.Options{}), ""))
	out = buf.String()
	assert.Greater(t, strings.Index(out, `class="labels"`), strings.Index(out, `class="header"`))
	assert.Contains(t, out, `action="/next"`)
}

func TestTextPlain(t *testing.T) {
	v := testView(t, picker.Options{
		MarkedDays: []time.Time{time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)},
	})

	out := Text(v, TextOptions{Plain: true})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "< Previous March 2024 Next >", lines[0])
	assert.Equal(t, "Sun Mon Tue Wed Thu Fri Sat", lines[1])
	assert.Equal(t, strings.Repeat(" ", 20)+" 1   2", lines[2])
	assert.Equal(t, " 3   4   5   6   7   8*  9", lines[3])
	assert.Equal(t, "10  11  12  13  14  [15]16", lines[4])
	assert.Equal(t, "31", lines[7])
}

func TestTextPlainSelectedAndMarked(t *testing.T) {
	v := testView(t, picker.Options{
		MarkedDays: []time.Time{
			time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC),
		},
	})

	lines := strings.Split(Text(v, TextOptions{Plain: true}), "\n")
	assert.Equal(t, "10  11  12  13  14  {15}16*", lines[4])

	v = testView(t, picker.Options{
		SelectedDate: time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC),
		MarkedDays:   []time.Time{time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)},
	})
	lines = strings.Split(Text(v, TextOptions{Plain: true}), "\n")
	assert.Equal(t, " 3   4   5   6   7  {8}  9", lines[3])
}

func TestTextStyled(t *testing.T) {
	v := testView(t, picker.Options{})
	out := Text(v, TextOptions{Styles: style.NewTerminal(style.TerminalColors{}), Cursor: 3})
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "15")
}
