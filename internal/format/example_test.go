package format_test

import (
	"fmt"

	"github.com/shopspring/decimal"

	"invoicer/internal/format"
)

func ExampleCurrency() {
	fmt.Println(format.Currency(decimal.RequireFromString("1234.5"), "USD"))
	fmt.Println(format.Currency(decimal.RequireFromString("22"), "EUR"))
	// Output:
	// $1,234.50
	// €22.00
}

func ExampleDate() {
	fmt.Println(format.Date("2024-01-15T10:30:00.000Z"))
	// Output: Jan 15, 2024
}
