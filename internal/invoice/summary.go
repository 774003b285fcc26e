package invoice

import (
	"github.com/shopspring/decimal"

	"invoicer/pkg/models"
)

// recentCount is how many invoices the dashboard lists.
const recentCount = 3

// Summary is the dashboard view over all invoices.
type Summary struct {
	Paid    decimal.Decimal
	Pending decimal.Decimal
	Overdue decimal.Decimal
	Counts  map[models.Status]int
	Recent  []models.Invoice
}

// Summarize totals the stored amounts per status. Drafts are counted but not
// summed. Recent holds the first invoices in stored order.
func Summarize(invoices []models.Invoice) Summary {
	sum := Summary{
		Paid:    decimal.Zero,
		Pending: decimal.Zero,
		Overdue: decimal.Zero,
		Counts:  make(map[models.Status]int, len(models.Statuses)),
	}
	for _, st := range models.Statuses {
		sum.Counts[st] = 0
	}

	for _, inv := range invoices {
		sum.Counts[inv.Status]++
		amount := ParseDecimal(inv.TotalAmount)
		switch inv.Status {
		case models.StatusPaid:
			sum.Paid = sum.Paid.Add(amount)
		case models.StatusPending:
			sum.Pending = sum.Pending.Add(amount)
		case models.StatusOverdue:
			sum.Overdue = sum.Overdue.Add(amount)
		}
	}

	n := min(recentCount, len(invoices))
	sum.Recent = make([]models.Invoice, n)
	copy(sum.Recent, invoices[:n])
	return sum
}
