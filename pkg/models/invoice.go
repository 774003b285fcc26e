package models

import "strings"

// Status is the free-form label attached to an invoice. Any status may follow
// any other; it is not a workflow.
type Status string

const (
	StatusDraft   Status = "DRAFT"
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusDraft, StatusPending, StatusPaid, StatusOverdue}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// Invoice is the persisted invoice record. Numeric fields are decimal strings
// so that stored data stays byte-compatible across versions.
type Invoice struct {
	// Core identifiers
	ID            string `json:"id"`            // Immutable unique id
	InvoiceNumber string `json:"invoiceNumber"` // Human-readable, user-editable

	// Client snapshot, captured when the client was selected
	ClientID      string `json:"clientId"`
	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	ClientEmail   string `json:"clientEmail"`

	// Dates as ISO-8601 timestamps
	IssueDate string `json:"issueDate"`
	DueDate   string `json:"dueDate"`

	// Line items in print order
	Items []InvoiceItem `json:"items"`

	Notes string `json:"notes"`
	Terms string `json:"terms"`

	TaxRate     string `json:"taxRate"`     // Percentage, e.g. "10"
	TotalAmount string `json:"totalAmount"` // Cached subtotal + tax, never edited directly

	Status     Status `json:"status"`
	TemplateID string `json:"templateId"`
}

// GetID returns the record id.
func (i Invoice) GetID() string { return i.ID }

// InvoiceItem is one billable line of an invoice.
type InvoiceItem struct {
	ID          string `json:"id"` // Unique within the invoice
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Amount      string `json:"amount"` // Cached round(quantity * price, 2)
}

// Clone returns a deep copy so callers can mutate items without aliasing.
func (i Invoice) Clone() Invoice {
	out := i
	if i.Items != nil {
		out.Items = make([]InvoiceItem, len(i.Items))
		copy(out.Items, i.Items)
	}
	return out
}
