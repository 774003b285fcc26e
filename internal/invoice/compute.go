package invoice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"invoicer/pkg/models"
)

// Currency amounts are kept to this many decimal places.
const moneyPlaces = 2

// Parsed exponents outside this range are treated as garbage rather than
// expanded into enormous numbers.
const maxExponent = 64

// Leading numeric prefix, the way a browser's parseFloat reads "12abc" as 12.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseDecimal reads s leniently. Surrounding whitespace is ignored, a
// trailing non-numeric suffix is dropped, and anything without a numeric
// prefix (including the empty string) is zero. It never fails.
func ParseDecimal(s string) decimal.Decimal {
	m := numericPrefix.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return decimal.Zero
	}

	mantissa := m[1]
	if strings.HasPrefix(mantissa, ".") {
		mantissa = "0" + mantissa
	}
	mantissa = strings.TrimSuffix(mantissa, ".")
	if strings.HasPrefix(m[0], "-") {
		mantissa = "-" + mantissa
	}

	d, err := decimal.NewFromString(mantissa + m[2])
	if err != nil {
		return decimal.Zero
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Zero
	}
	return d
}

// RoundMoney rounds half away from zero to two places, which for the
// non-negative amounts an invoice holds is round-half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// FormatMoney renders d as a fixed two-decimal string, e.g. "22.00".
func FormatMoney(d decimal.Decimal) string {
	return RoundMoney(d).StringFixed(moneyPlaces)
}

// RecomputeItemAmount returns item with Amount set to quantity × price,
// rounded to two places. Unparsable quantity or price count as zero.
func RecomputeItemAmount(item models.InvoiceItem) models.InvoiceItem {
	qty := ParseDecimal(item.Quantity)
	price := ParseDecimal(item.Price)
	item.Amount = FormatMoney(qty.Mul(price))
	return item
}

// Totals holds the derived figures of an invoice. TaxAmount is unrounded;
// Total is rounded once, after adding tax.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxRate   decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// HasTax reports whether a tax line should be shown.
func (t Totals) HasTax() bool {
	return t.TaxRate.IsPositive()
}

// ComputeTotals derives subtotal, tax and total from the stored item amounts
// and tax rate. It reads the cached item amounts as they are, it does not
// recompute them.
func ComputeTotals(inv models.Invoice) Totals {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(ParseDecimal(item.Amount))
	}
	rate := ParseDecimal(inv.TaxRate)
	tax := subtotal.Mul(rate).Shift(-2)

	return Totals{
		Subtotal:  subtotal,
		TaxRate:   rate,
		TaxAmount: tax,
		Total:     RoundMoney(subtotal.Add(tax)),
	}
}

// RecomputeInvoiceTotal returns inv with TotalAmount refreshed from the
// current item amounts and tax rate.
func RecomputeInvoiceTotal(inv models.Invoice) models.Invoice {
	inv.TotalAmount = FormatMoney(ComputeTotals(inv).Total)
	return inv
}

// Recompute refreshes every cached field of inv: each item amount, then the
// invoice total. It is the single entry point every mutation goes through
// before an invoice is shown or saved. inv itself is not modified.
func Recompute(inv models.Invoice) models.Invoice {
	out := inv.Clone()
	for i := range out.Items {
		out.Items[i] = RecomputeItemAmount(out.Items[i])
	}
	return RecomputeInvoiceTotal(out)
}

// Drift lists the cached fields of inv that differ from their recomputed
// value. A freshly loaded invoice written through Recompute has no drift.
func Drift(inv models.Invoice) []string {
	fresh := Recompute(inv)
	var fields []string
	for i := range inv.Items {
		if inv.Items[i].Amount != fresh.Items[i].Amount {
			fields = append(fields, "items["+inv.Items[i].ID+"].amount")
		}
	}
	if inv.TotalAmount != fresh.TotalAmount {
		fields = append(fields, "totalAmount")
	}
	return fields
}
