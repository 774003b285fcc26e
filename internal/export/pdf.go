package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"invoicer/internal/render"
)

// A4 portrait with 10mm margins leaves 190mm of usable width.
const (
	pageWidth    = 190.0
	lineHeight   = 6.0
	bottomMargin = 15.0
)

var columnWidths = []float64{95, 20, 35, 40}

// Wrapped item descriptions use a tighter line height than single-line rows.
const itemLineHeight = 5.0

// WritePDF writes v as an A4 PDF using the core Helvetica font. Text is
// translated to the cp1252 code page the core fonts use.
func WritePDF(w io.Writer, v render.View) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+v.Number, true)
	pdf.SetAutoPageBreak(true, bottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	writePDFHeader(pdf, tr, v)
	writePDFParties(pdf, tr, v)
	writePDFItems(pdf, tr, v)
	writePDFTotals(pdf, tr, v)
	writePDFFooter(pdf, tr, v)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func writePDFHeader(pdf *gofpdf.Fpdf, tr func(string) string, v render.View) {
	top := pdf.GetY()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(100, 12, "INVOICE", "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(100, lineHeight, tr(v.Number), "", 2, "L", false, 0, "")
	bottom := pdf.GetY()

	if v.From != nil {
		from := *v.From
		pdf.SetXY(110, top)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetTextColor(51, 51, 51)
		pdf.CellFormat(90, 8, tr(from.Name), "", 2, "R", false, 0, "")
		from.Name = ""

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(102, 102, 102)
		for _, line := range from.Lines() {
			pdf.CellFormat(90, 5, tr(line), "", 2, "R", false, 0, "")
		}
		bottom = max(bottom, pdf.GetY())
	}

	pdf.SetXY(10, bottom)
	pdf.Ln(10)
}

func writePDFParties(pdf *gofpdf.Fpdf, tr func(string) string, v render.View) {
	top := pdf.GetY()

	label := func(s string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(136, 136, 136)
		pdf.CellFormat(90, 5, s, "", 2, "L", false, 0, "")
	}
	value := func(s string) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(51, 51, 51)
		pdf.CellFormat(90, lineHeight, tr(s), "", 2, "L", false, 0, "")
	}

	label("BILL TO")
	value(v.BillTo.Name)
	value(v.BillTo.Address)
	value(v.BillTo.Email)
	left := pdf.GetY()

	pdf.SetXY(110, top)
	label("INVOICE DATE")
	value(v.IssueDate)
	label("DUE DATE")
	value(v.DueDate)
	label("STATUS")
	value(v.Status)
	right := pdf.GetY()

	pdf.SetXY(10, max(left, right))
	pdf.Ln(8)
}

func writePDFItems(pdf *gofpdf.Fpdf, tr func(string) string, v render.View) {
	headers := []string{"DESCRIPTION", "QTY", "PRICE", "AMOUNT"}
	aligns := []string{"L", "C", "R", "R"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(249, 249, 249)
	pdf.SetTextColor(102, 102, 102)
	pdf.SetDrawColor(221, 221, 221)
	for i, h := range headers {
		pdf.CellFormat(columnWidths[i], 8, h, "B", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetDrawColor(238, 238, 238)
	for _, row := range v.Rows {
		lines := wrapText(pdf, tr(row.Description), columnWidths[0])
		rowH := max(9, float64(len(lines))*itemLineHeight+4)

		x, y := pdf.GetXY()
		_, pageH := pdf.GetPageSize()
		if y+rowH > pageH-bottomMargin {
			pdf.AddPage()
			x, y = pdf.GetXY()
		}

		top := y + (rowH-float64(len(lines))*itemLineHeight)/2
		for i, line := range lines {
			pdf.SetXY(x, top+float64(i)*itemLineHeight)
			pdf.CellFormat(columnWidths[0], itemLineHeight, line, "", 0, aligns[0], false, 0, "")
		}
		pdf.Line(x, y+rowH, x+columnWidths[0], y+rowH)

		pdf.SetXY(x+columnWidths[0], y)
		for i, c := range []string{row.Quantity, row.Price, row.Amount} {
			pdf.CellFormat(columnWidths[i+1], rowH, tr(c), "B", 0, aligns[i+1], false, 0, "")
		}
		pdf.SetXY(x, y+rowH)
	}
	pdf.Ln(6)
}

// wrapText splits s into lines that fit a cell of width w in the current
// font. It always returns at least one line.
func wrapText(pdf *gofpdf.Fpdf, s string, w float64) []string {
	var lines []string
	for _, l := range pdf.SplitLines([]byte(s), w) {
		lines = append(lines, string(l))
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func writePDFTotals(pdf *gofpdf.Fpdf, tr func(string) string, v render.View) {
	const labelX, labelW, valueW = 120.0, 40.0, 40.0

	line := func(label, value string) {
		pdf.SetX(labelX)
		pdf.CellFormat(labelW, lineHeight, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, lineHeight, tr(value), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(102, 102, 102)
	line("Subtotal", v.Subtotal)
	if v.ShowTax {
		line(v.TaxLabel(), v.TaxAmount)
	}

	pdf.SetDrawColor(221, 221, 221)
	pdf.Line(labelX, pdf.GetY()+1, labelX+labelW+valueW, pdf.GetY()+1)
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(51, 51, 51)
	line("Total", v.Total)
	pdf.Ln(10)
}

func writePDFFooter(pdf *gofpdf.Fpdf, tr func(string) string, v render.View) {
	block := func(title, text string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(pageWidth, lineHeight, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(pageWidth, 5, tr(text), "", "L", false)
		pdf.Ln(4)
	}

	if v.Notes != "" {
		block("Notes", v.Notes)
	}
	if v.Terms != "" {
		block("Terms & Conditions", v.Terms)
	}
}
