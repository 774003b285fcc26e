package invoice

import (
	"strings"

	"invoicer/internal/format"
	"invoicer/pkg/models"
)

// Editable item fields. Amount is derived and deliberately absent.
const (
	ItemFieldDescription = "description"
	ItemFieldQuantity    = "quantity"
	ItemFieldPrice       = "price"
)

// Editable invoice fields set through SetField.
const (
	FieldNumber    = "invoiceNumber"
	FieldNotes     = "notes"
	FieldTerms     = "terms"
	FieldIssueDate = "issueDate"
	FieldDueDate   = "dueDate"
)

// The functions below never modify their argument; each returns an updated
// copy that has already been through Recompute.

// SelectClient copies the client's name, address and email onto the invoice.
// Later edits to the client do not reach this invoice.
func SelectClient(inv models.Invoice, client models.Client) models.Invoice {
	out := inv.Clone()
	out.ClientID = client.ID
	out.ClientName = client.Name
	out.ClientAddress = client.Address
	out.ClientEmail = client.Email
	return Recompute(out)
}

// AddItem appends a blank line with quantity 1 and price 0.
func AddItem(inv models.Invoice, itemID string) models.Invoice {
	return appendItem(inv, models.InvoiceItem{
		ID:       itemID,
		Quantity: "1",
		Price:    "0",
	})
}

// AddProduct appends a line copied from product. The line keeps no link to
// the product.
func AddProduct(inv models.Invoice, itemID string, product models.Product) models.Invoice {
	return appendItem(inv, models.InvoiceItem{
		ID:          itemID,
		Description: product.Name,
		Quantity:    "1",
		Price:       product.Price,
	})
}

// AddLine appends a line with the given values.
func AddLine(inv models.Invoice, itemID, description, quantity, price string) models.Invoice {
	return appendItem(inv, models.InvoiceItem{
		ID:          itemID,
		Description: description,
		Quantity:    quantity,
		Price:       price,
	})
}

func appendItem(inv models.Invoice, item models.InvoiceItem) models.Invoice {
	out := inv.Clone()
	out.Items = append(out.Items, item)
	return Recompute(out)
}

// UpdateItem sets one editable field of the item with itemID.
func UpdateItem(inv models.Invoice, itemID, field, value string) (models.Invoice, error) {
	out := inv.Clone()
	i := indexOf(out.Items, itemID)
	if i < 0 {
		return inv, ErrItemNotFound
	}

	switch field {
	case ItemFieldDescription:
		out.Items[i].Description = value
	case ItemFieldQuantity:
		out.Items[i].Quantity = value
	case ItemFieldPrice:
		out.Items[i].Price = value
	default:
		return inv, &ValidationError{Field: field, Value: value, Message: "not an editable item field", Err: ErrUnknownField}
	}
	return Recompute(out), nil
}

// RemoveItem drops the item with itemID, keeping the order of the rest.
func RemoveItem(inv models.Invoice, itemID string) (models.Invoice, error) {
	i := indexOf(inv.Items, itemID)
	if i < 0 {
		return inv, ErrItemNotFound
	}
	out := inv.Clone()
	out.Items = append(out.Items[:i], out.Items[i+1:]...)
	return Recompute(out), nil
}

// MoveItem moves the item with itemID to position (0-based), clamped to the
// item range. Print order follows item order.
func MoveItem(inv models.Invoice, itemID string, position int) (models.Invoice, error) {
	i := indexOf(inv.Items, itemID)
	if i < 0 {
		return inv, ErrItemNotFound
	}
	out := inv.Clone()
	item := out.Items[i]
	out.Items = append(out.Items[:i], out.Items[i+1:]...)

	position = max(0, min(position, len(out.Items)))
	out.Items = append(out.Items, models.InvoiceItem{})
	copy(out.Items[position+1:], out.Items[position:])
	out.Items[position] = item
	return Recompute(out), nil
}

// SetTaxRate stores rate as given; an unparsable rate counts as zero.
func SetTaxRate(inv models.Invoice, rate string) models.Invoice {
	out := inv.Clone()
	out.TaxRate = rate
	return Recompute(out)
}

// SetStatus sets any of the four statuses, whatever the current one is. The
// label is matched case-insensitively and stored in its canonical form.
func SetStatus(inv models.Invoice, status models.Status) (models.Invoice, error) {
	st, ok := models.ParseStatus(string(status))
	if !ok {
		return inv, &ValidationError{Field: "status", Value: status, Message: "unknown status", Err: ErrInvalidStatus}
	}
	out := inv.Clone()
	out.Status = st
	return Recompute(out), nil
}

// SetTemplate records the layout to render with. Unknown names are kept as
// given and fall back to the default layout at render time.
func SetTemplate(inv models.Invoice, templateID string) models.Invoice {
	out := inv.Clone()
	out.TemplateID = strings.TrimSpace(templateID)
	return Recompute(out)
}

// SetField sets one free-text or date field. Dates accept any ISO-8601 date
// or timestamp and are stored as full timestamps.
func SetField(inv models.Invoice, field, value string) (models.Invoice, error) {
	out := inv.Clone()
	switch field {
	case FieldNumber:
		out.InvoiceNumber = value
	case FieldNotes:
		out.Notes = value
	case FieldTerms:
		out.Terms = value
	case FieldIssueDate, FieldDueDate:
		t, err := format.ParseTimestamp(value)
		if err != nil {
			return inv, &ValidationError{Field: field, Value: value, Message: "expected an ISO-8601 date", Err: ErrInvalidDate}
		}
		if field == FieldIssueDate {
			out.IssueDate = format.Timestamp(t)
		} else {
			out.DueDate = format.Timestamp(t)
		}
	default:
		return inv, &ValidationError{Field: field, Value: value, Message: "not an editable invoice field", Err: ErrUnknownField}
	}
	return Recompute(out), nil
}

func indexOf(items []models.InvoiceItem, itemID string) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}
