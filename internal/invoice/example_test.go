package invoice_test

import (
	"fmt"

	"invoicer/internal/invoice"
	"invoicer/pkg/models"
)

// Example shows a line item edited into an invoice with tax.
func Example() {
	inv := models.Invoice{ID: "inv-1", TaxRate: "0"}
	inv = invoice.AddItem(inv, "item-1")

	inv, err := invoice.UpdateItem(inv, "item-1", invoice.ItemFieldQuantity, "2")
	if err != nil {
		panic(err)
	}
	inv, err = invoice.UpdateItem(inv, "item-1", invoice.ItemFieldPrice, "10.00")
	if err != nil {
		panic(err)
	}
	inv = invoice.SetTaxRate(inv, "10")

	totals := invoice.ComputeTotals(inv)
	fmt.Println("amount:", inv.Items[0].Amount)
	fmt.Println("subtotal:", invoice.FormatMoney(totals.Subtotal))
	fmt.Println("tax:", invoice.FormatMoney(totals.TaxAmount))
	fmt.Println("total:", inv.TotalAmount)
	// Output:
	// amount: 20.00
	// subtotal: 20.00
	// tax: 2.00
	// total: 22.00
}

// ExampleRecomputeItemAmount shows that unparsable input counts as zero.
func ExampleRecomputeItemAmount() {
	item := invoice.RecomputeItemAmount(models.InvoiceItem{Quantity: "abc", Price: "10.00"})
	fmt.Println(item.Amount)
	// Output: 0.00
}
