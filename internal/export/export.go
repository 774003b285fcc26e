// Package export writes an invoice view as a standalone document for
// printing or sharing: a self-contained HTML page or a PDF.
//
// Both formats print the strings of render.View unchanged, so they always
// agree with the terminal layouts. The "from" block is the real business
// profile and is left out when none is configured.
package export

import (
	"fmt"
	"io"
	"strings"

	"invoicer/internal/render"
)

// Format is an export file format.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "html", "htm" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want html or pdf)", s)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Write renders v in format f to w.
func Write(w io.Writer, v render.View, f Format) error {
	switch f {
	case FormatHTML:
		return WriteHTML(w, v)
	case FormatPDF:
		return WritePDF(w, v)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}
