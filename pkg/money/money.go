package money

import (
	"errors"
	"fmt"
)

// ErrCurrencyMismatch reports an amount denominated in a currency other than
// the one an operation was asked to work in. Conversion is never attempted.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Currency is an ISO 4217 code with its own display conventions.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// Parse returns the Currency for a code.
func Parse(code string) (Currency, error) {
	switch Currency(code) {
	case USD:
		return USD, nil
	case EUR:
		return EUR, nil
	default:
		return "", fmt.Errorf("unknown currency %q", code)
	}
}

// Format renders a smallest-unit amount following the currency's convention.
func (c Currency) Format(units int64) string {
	sign, abs := splitSign(units)
	switch c {
	case EUR:
		return fmt.Sprintf("%s%d,%02d €", sign, abs/100, abs%100)
	case USD:
		return fmt.Sprintf("$ %s%d.%02d", sign, abs/100, abs%100)
	default:
		return fmt.Sprintf("%s %s", string(c), c.Digits(units))
	}
}

// Digits renders a smallest-unit amount with no symbol and '.' as the
// decimal separator, regardless of currency.
func (c Currency) Digits(units int64) string {
	sign, abs := splitSign(units)
	return fmt.Sprintf("%s%d.%02d", sign, abs/100, abs%100)
}

func splitSign(units int64) (string, int64) {
	if units < 0 {
		return "-", -units
	}
	return "", units
}

// Amount is an integer count of a currency's smallest unit (cents).
// Monetary values are never represented as floating point.
type Amount struct {
	Units    int64    `json:"units" bson:"units"`
	Currency Currency `json:"currency" bson:"currency"`
}

// Times scales the amount by an item quantity.
func (a Amount) Times(quantity int) Amount {
	return Amount{Units: a.Units * int64(quantity), Currency: a.Currency}
}

func (a Amount) String() string {
	return a.Currency.Format(a.Units)
}

// Sum adds amounts denominated in currency. Any addend carrying a different
// currency yields ErrCurrencyMismatch.
func Sum(currency Currency, amounts ...Amount) (Amount, error) {
	total := Amount{Currency: currency}
	for _, a := range amounts {
		if a.Currency != currency {
			return Amount{}, fmt.Errorf("%w: have %s, want %s", ErrCurrencyMismatch, a.Currency, currency)
		}
		total.Units += a.Units
	}
	return total, nil
}
