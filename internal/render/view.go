// Package render turns an invoice into a printable document.
//
// NewView formats an invoice once, producing every string any layout needs.
// Render then arranges that view into one of the fixed layouts. Layouts only
// differ in arrangement and labels; numbers and the set of fields shown come
// from the view and are identical across layouts. The HTML and PDF exports
// consume the same view.
package render

import (
	"strings"

	"invoicer/internal/format"
	"invoicer/internal/invoice"
	"invoicer/pkg/models"
)

// Options carries settings that are not part of the invoice.
type Options struct {
	// Currency is used when the business profile has no valid currency code.
	Currency string
}

// Party is a formatted name and contact block.
type Party struct {
	Name    string
	Address string
	Email   string
	Phone   string
	TaxID   string
}

// Lines returns the non-empty lines of the block in print order.
func (p Party) Lines() []string {
	var lines []string
	for _, s := range []string{p.Name, p.Address, p.Email, p.Phone} {
		if strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
	}
	if p.TaxID != "" {
		lines = append(lines, "Tax ID: "+p.TaxID)
	}
	return lines
}

// Row is one formatted line item.
type Row struct {
	Description string
	Quantity    string
	Price       string
	Amount      string
}

// View is an invoice with every displayed value already formatted.
type View struct {
	Number    string
	IssueDate string
	DueDate   string
	Status    string
	Currency  string

	// From is nil when no business profile exists.
	From   *Party
	BillTo Party

	Rows []Row

	Subtotal  string
	TaxRate   string
	TaxAmount string
	Total     string
	ShowTax   bool

	Notes string
	Terms string

	Totals invoice.Totals
}

// TaxLabel is the label of the tax line, e.g. "Tax (10%)".
func (v View) TaxLabel() string {
	return "Tax (" + v.TaxRate + "%)"
}

// StatusClass is the lower-case status, used to style status badges.
func (v View) StatusClass() string {
	return strings.ToLower(v.Status)
}

// NewView formats inv for display. Stored amounts are shown as they are; the
// subtotal and tax are derived from the stored item amounts and the total is
// the stored total. Party details come from the invoice's own client copy,
// never from the live client record.
func NewView(inv models.Invoice, business *models.Business, opts Options) View {
	code := format.ResolveCurrency(opts.Currency)
	if business != nil {
		code = format.ResolveCurrency(business.Currency, opts.Currency)
	}
	money := func(s string) string {
		return format.Currency(invoice.ParseDecimal(s), code)
	}

	totals := invoice.ComputeTotals(inv)
	v := View{
		Number:    inv.InvoiceNumber,
		IssueDate: format.Date(inv.IssueDate),
		DueDate:   format.Date(inv.DueDate),
		Status:    string(inv.Status),
		Currency:  code,
		BillTo: Party{
			Name:    inv.ClientName,
			Address: inv.ClientAddress,
			Email:   inv.ClientEmail,
		},
		Rows:      make([]Row, 0, len(inv.Items)),
		Subtotal:  format.Currency(totals.Subtotal, code),
		TaxRate:   strings.TrimSpace(inv.TaxRate),
		TaxAmount: format.Currency(totals.TaxAmount, code),
		Total:     money(inv.TotalAmount),
		ShowTax:   totals.HasTax(),
		Notes:     strings.TrimSpace(inv.Notes),
		Terms:     strings.TrimSpace(inv.Terms),
		Totals:    totals,
	}

	if business != nil {
		v.From = &Party{
			Name:    business.Name,
			Address: business.Address,
			Email:   business.Email,
			Phone:   business.Phone,
			TaxID:   business.TaxID,
		}
	}

	for _, item := range inv.Items {
		v.Rows = append(v.Rows, Row{
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       money(item.Price),
			Amount:      money(item.Amount),
		})
	}
	return v
}
