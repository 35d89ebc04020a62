package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ReferenceWidth is the screen width the base sizes were designed for.
const ReferenceWidth = 375

// Sheet holds pixel sizes for the HTML renderer. All values are already
// multiplied by the scale factor.
type Sheet struct {
	Scale float64

	CalendarMarginTop float64
	DayWidth          float64
	DayHeight         float64
	SelectedDayWidth  float64
	SelectedRadius    float64
	DayFontSize       float64
	LabelFontSize     float64
	MonthFontSize     float64
	HeaderMargin      float64
	WeekRowMargin     float64
	MarkerSize        float64
	ControlFontSize   float64

	DisabledTextColor string
	DefaultSelected   string
	DefaultMarked     string
}

// Make scales the base style sheet. A non-positive scale is treated as 1.
func Make(scale float64) Sheet {
	if scale <= 0 {
		scale = 1
	}
	s := func(v float64) float64 { return v * scale }
	return Sheet{
		Scale:             scale,
		CalendarMarginTop: s(10),
		DayWidth:          s(50),
		DayHeight:         s(40),
		SelectedDayWidth:  s(40),
		SelectedRadius:    s(20),
		DayFontSize:       s(16),
		LabelFontSize:     s(12),
		MonthFontSize:     s(20),
		HeaderMargin:      s(12),
		WeekRowMargin:     s(7),
		MarkerSize:        s(5),
		ControlFontSize:   s(15),
		DisabledTextColor: "#BBBBBB",
		DefaultSelected:   "#5ce600",
		DefaultMarked:     "#ff6b6b",
	}
}

// ForWidth derives the scale from a screen width.
func ForWidth(width float64) Sheet {
	return Make(width / ReferenceWidth)
}

// Px formats a size for CSS.
func Px(v float64) string {
	return fmt.Sprintf("%.1fpx", v)
}

// Terminal holds lipgloss styles for the terminal renderer.
type Terminal struct {
	Title    lipgloss.Style
	Control  lipgloss.Style
	Disabled lipgloss.Style
	Label    lipgloss.Style
	Day      lipgloss.Style
	Selected lipgloss.Style
	Marked   lipgloss.Style
	Cursor   lipgloss.Style
	Box      lipgloss.Style
	Help     lipgloss.Style
}

// TerminalColors overrides the default palette. Empty fields keep defaults.
type TerminalColors struct {
	Selected     string
	SelectedText string
	Text         string
	Marked       string
}

// NewTerminal builds terminal styles, layering colors over the defaults.
func NewTerminal(c TerminalColors) Terminal {
	selected := pick(c.Selected, "2")
	selectedText := pick(c.SelectedText, "0")
	text := pick(c.Text, "7")
	marked := pick(c.Marked, "1")

	return Terminal{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Align(lipgloss.Center),
		Control:  lipgloss.NewStyle().Foreground(lipgloss.Color(text)),
		Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true),
		Day:      lipgloss.NewStyle().Foreground(lipgloss.Color(text)),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color(selected)).Foreground(lipgloss.Color(selectedText)).Bold(true),
		Marked:   lipgloss.NewStyle().Foreground(lipgloss.Color(marked)).Underline(true),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("5")).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
	}
}

func pick(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
