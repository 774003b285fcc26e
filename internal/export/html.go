package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"invoicer/internal/render"
)

//go:embed templates/invoice.html.tmpl
var templateFS embed.FS

// Free text is escaped by html/template, so a description like
// "<script>" cannot change the structure of the page.
var htmlTemplate = template.Must(template.ParseFS(templateFS, "templates/invoice.html.tmpl"))

// WriteHTML writes v as a single self-contained HTML page with inline styles.
func WriteHTML(w io.Writer, v render.View) error {
	if err := htmlTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
