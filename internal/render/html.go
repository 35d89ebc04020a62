package render

import (
	"embed"
	"html/template"
	"io"

	"calpicker/internal/picker"
	"calpicker/internal/style"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var pageTemplate = template.Must(template.New("picker.html.tmpl").Funcs(template.FuncMap{
	"px":    style.Px,
	"mul":   func(a, b float64) float64 { return a * b },
	"half":  func(a float64) float64 { return a / 2 },
	"state": func(c picker.DayCell) string { return c.State().String() },
}).ParseFS(templatesFS, "templates/picker.html.tmpl"))

type pageData struct {
	View  picker.View
	Sheet style.Sheet
	// Base prefixes form actions when the page is mounted below "/".
	Base string

	SelectedColor     string
	SelectedTextColor string
	TextColor         string
	MarkedColor       string
}

// HTML writes the picker as a standalone page. Controls are plain forms
// posting to {base}/tap, {base}/next and {base}/previous. The root element
// carries data-ready="true" for screenshot capture.
func HTML(w io.Writer, v picker.View, base string) error {
	sheet := style.Make(v.Appearance.ScaleFactor)
	data := pageData{
		View:              v,
		Sheet:             sheet,
		Base:              base,
		SelectedColor:     fallback(v.Appearance.SelectedDayColor, sheet.DefaultSelected),
		SelectedTextColor: v.Appearance.SelectedDayTextColor,
		TextColor:         v.Appearance.TextColor,
		MarkedColor:       fallback(v.Appearance.MarkedDayColor, sheet.DefaultMarked),
	}
	return pageTemplate.Execute(w, data)
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
