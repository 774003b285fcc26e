package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/invoice"
	"invoicer/internal/render"
	"invoicer/pkg/models"
)

func sampleView(t *testing.T, mutate func(*models.Invoice), business *models.Business) render.View {
	t.Helper()
	inv := models.Invoice{
		ID:            "inv-1",
		InvoiceNumber: "INV-1001",
		ClientName:    "Acme Corp",
		ClientAddress: "1 Road",
		ClientEmail:   "billing@acme.test",
		IssueDate:     "2024-01-15T10:30:00.000Z",
		DueDate:       "2024-01-29T10:30:00.000Z",
		Items:         []models.InvoiceItem{{ID: "1", Description: "Design", Quantity: "2", Price: "10.00"}},
		Notes:         "Thank you!",
		Terms:         "Net 14",
		TaxRate:       "10",
		Status:        models.StatusPaid,
	}
	if mutate != nil {
		mutate(&inv)
	}
	return render.NewView(invoice.Recompute(inv), business, render.Options{})
}

func renderHTML(t *testing.T, v render.View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, v))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)
	assert.Equal(t, ".html", f.Extension())

	f, err = ParseFormat(" pdf ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestWriteHTML_MatchesTemplates(t *testing.T) {
	v := sampleView(t, nil, nil)
	out := renderHTML(t, v)

	for _, want := range []string{
		"<title>Invoice INV-1001</title>",
		"INV-1001",
		"Jan 15, 2024",
		"Jan 29, 2024",
		`status-badge status-paid`,
		"<td>Design</td>",
		"$10.00",
		"$20.00",
		"Tax (10%)",
		"$2.00",
		"$22.00",
		"Thank you!",
		"Terms &amp; Conditions",
		"Net 14",
	} {
		assert.Contains(t, out, want)
	}

	// Every value the export shows is the one the terminal layouts show.
	doc := render.Render(v, render.Professional)
	for _, key := range []string{render.FieldSubtotal, render.FieldTax, render.FieldTotal} {
		value, ok := doc.Field(key)
		require.True(t, ok)
		assert.Contains(t, out, value)
	}
}

func TestWriteHTML_NoTaxLine(t *testing.T) {
	v := sampleView(t, func(inv *models.Invoice) { inv.TaxRate = "0" }, nil)
	out := renderHTML(t, v)

	assert.NotContains(t, out, "Tax (")
	assert.NotContains(t, out, "tax-row")
	assert.Contains(t, out, "$20.00")
}

func TestWriteHTML_OptionalFooter(t *testing.T) {
	v := sampleView(t, func(inv *models.Invoice) {
		inv.Notes = ""
		inv.Terms = ""
	}, nil)
	out := renderHTML(t, v)

	assert.NotContains(t, out, `class="footer"`)
	assert.NotContains(t, out, "Terms &amp; Conditions")
}

func TestWriteHTML_EscapesFreeText(t *testing.T) {
	v := sampleView(t, func(inv *models.Invoice) {
		inv.ClientName = `<script>alert("x")</script>`
		inv.ClientAddress = `</p><h1>pwned</h1>`
		inv.Notes = "a & b <b>bold</b>"
		inv.Terms = `"quoted"`
		inv.Items[0].Description = "<img src=x onerror=alert(1)>"
	}, nil)
	out := renderHTML(t, v)

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<h1>pwned")
	assert.NotContains(t, out, "<b>bold</b>")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "a &amp; b &lt;b&gt;bold&lt;/b&gt;")
}

func TestWriteHTML_BusinessProfile(t *testing.T) {
	business := &models.Business{
		Name:     "Studio <Ltd>",
		Email:    "hello@studio.test",
		Address:  "9 High St",
		Phone:    "555-0100",
		TaxID:    "DE123",
		Currency: "EUR",
	}
	out := renderHTML(t, sampleView(t, nil, business))

	assert.Contains(t, out, `class="company-info"`)
	assert.Contains(t, out, "Studio &lt;Ltd&gt;")
	assert.Contains(t, out, "9 High St")
	assert.Contains(t, out, "Tax ID: DE123")
	assert.Contains(t, out, "€22.00")
	assert.NotContains(t, out, "Your Company Name")

	noBusiness := renderHTML(t, sampleView(t, nil, nil))
	assert.NotContains(t, noBusiness, `class="company-info"`)
}

func TestWritePDF(t *testing.T) {
	business := &models.Business{Name: "Studio", Address: "9 High St", Currency: "EUR"}
	v := sampleView(t, func(inv *models.Invoice) {
		inv.Notes = strings.Repeat("Long note with umlauts äöü and a euro sign €. ", 40)
	}, business)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, v))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestWrapText_FitsDescriptionColumn(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)

	long := strings.Repeat("Consulting and implementation work ", 12)
	lines := wrapText(pdf, long, columnWidths[0])
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(line), columnWidths[0], line)
	}
	assert.Equal(t, strings.Join(strings.Fields(long), " "), strings.Join(strings.Fields(strings.Join(lines, " ")), " "))

	assert.Equal(t, []string{""}, wrapText(pdf, "", columnWidths[0]))
}

func TestWritePDF_LongDescriptions(t *testing.T) {
	v := sampleView(t, func(inv *models.Invoice) {
		for i := range 30 {
			inv.Items = append(inv.Items, models.InvoiceItem{
				ID:          fmt.Sprintf("long-%d", i),
				Description: strings.Repeat("Extended support retainer ", 10),
				Quantity:    "1",
				Price:       "10",
			})
		}
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, v))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestWrite_Dispatch(t *testing.T) {
	v := sampleView(t, nil, nil)

	var html bytes.Buffer
	require.NoError(t, Write(&html, v, FormatHTML))
	assert.True(t, strings.HasPrefix(html.String(), "<!DOCTYPE html>"))

	var pdf bytes.Buffer
	require.NoError(t, Write(&pdf, v, FormatPDF))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))

	assert.Error(t, Write(&bytes.Buffer{}, v, Format("rtf")))
}
