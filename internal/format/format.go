// Package format renders money and dates the same way on every surface:
// terminal templates, HTML export and PDF export.
//
// Output is locale-fixed (English grouping, UTC dates) so that it is
// deterministic and testable. Only the currency symbol varies, taken from
// the business profile's currency code.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when no valid currency code is supplied.
const DefaultCurrency = "USD"

// DateLayout is the short human date shown on invoices, e.g. "Jan 2, 2024".
const DateLayout = "Jan 2, 2006"

// TimestampLayout matches ISO-8601 timestamps with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	printer = message.NewPrinter(language.English)

	// Years outside 0000-9999 are written with a sign and six digits.
	expandedYear = regexp.MustCompile(`^([+-]\d{6})(-.+)$`)

	parseLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// CurrencyUnit resolves code to a currency, falling back to DefaultCurrency.
func CurrencyUnit(code string) currency.Unit {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return currency.MustParseISO(DefaultCurrency)
	}
	return unit
}

// ParseCurrency validates an ISO 4217 code and returns it upper cased.
func ParseCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("currency %q: %w", code, err)
	}
	return unit.String(), nil
}

// ResolveCurrency returns the first valid ISO 4217 code among codes, upper
// cased, or DefaultCurrency when none is valid.
func ResolveCurrency(codes ...string) string {
	for _, code := range codes {
		if c, err := ParseCurrency(code); err == nil {
			return c
		}
	}
	return DefaultCurrency
}

// Symbol returns the narrow symbol for code, e.g. "$" for USD.
func Symbol(code string) string {
	return printer.Sprint(currency.NarrowSymbol(CurrencyUnit(code)))
}

// Currency renders amount as symbol plus grouped two-decimal number, for
// example "$1,234.50" or "-€12.00". The amount is rounded half-up first.
func Currency(amount decimal.Decimal, code string) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + Symbol(code) + Number(rounded)
}

// Number renders a two-decimal amount with thousands separators. Digits are
// grouped on the exact decimal string, so large amounts print as stored.
func Number(amount decimal.Decimal) string {
	s := amount.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}
	return sign + b.String() + "." + frac
}

// ParseTimestamp reads an ISO-8601 date or timestamp. Values without a zone
// are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if m := expandedYear.FindStringSubmatch(s); m != nil {
		year, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
		}
		// 2000 is a leap year, so Feb 29 survives the substitution.
		t, err := ParseTimestamp("2000" + m[2])
		if err != nil {
			return time.Time{}, err
		}
		return t.AddDate(year-2000, 0, 0), nil
	}

	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unrecognised format", s)
}

// Timestamp renders t the way it is persisted, in UTC with milliseconds.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Date renders a stored timestamp as a short date in UTC. A value that cannot
// be parsed is returned unchanged rather than failing the whole document.
func Date(iso string) string {
	if strings.TrimSpace(iso) == "" {
		return ""
	}
	t, err := ParseTimestamp(iso)
	if err != nil {
		return iso
	}
	return t.Format(DateLayout)
}
