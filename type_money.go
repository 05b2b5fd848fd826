package navdash

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used to display portfolio values when none is configured.
const DefaultCurrency = "USD"

// Money represents a monetary value in a given currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money for value in currency.
func M(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the value grouped by thousands and rounded to the currency fraction,
// e.g. "$1,234.50" for 1234.5 USD. Amounts too large for the formatter are printed
// ungrouped after the currency code.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if !dec.BigInt().IsInt64() {
		// The formatter works on int64 minor units; beyond that print the plain amount.
		return cur.Code + " " + m.value.StringFixed(int32(cur.Fraction))
	}
	return cur.Formatter().Format(dec.IntPart())
}

// FormatCurrency formats value as an amount of currency.
func FormatCurrency(value decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return M(value, currency).String()
}
