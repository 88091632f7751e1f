// Package money implements fixed-precision decimal arithmetic for
// monetary amounts. Every amount carries four fractional digits and an
// ISO-4217 currency code; binary operations between mismatched
// currencies fail rather than silently coerce. Floating point is never
// used for arithmetic — shopspring/decimal backs every value.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the fixed number of fractional digits persisted and
// rendered for every amount.
const Scale = 4

// ErrCurrencyMismatch is returned by any binary operation whose
// operands carry different currencies.
var ErrCurrencyMismatch = errors.New("money: currency mismatch")

// ErrInvalidAmount is returned when an amount fails validation
// (non-positive where positive is required, or too many fractional
// digits to represent losslessly at Scale).
var ErrInvalidAmount = errors.New("money: invalid amount")

// Money is a decimal amount paired with its currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// activeCurrencies is the allow-list of ISO-4217 codes this API
// accepts. Not exhaustive ISO-4217 coverage — just the settlement
// currencies the wired providers actually support.
var activeCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "CAD": true, "AUD": true,
	"JPY": true, "CHF": true, "SEK": true, "NOK": true, "DKK": true,
	"NZD": true, "SGD": true, "HKD": true, "MXN": true, "BRL": true,
	"INR": true, "ZAR": true, "PLN": true,
}

// IsActiveCurrency reports whether code is a three-letter currency on
// the active allow-list.
func IsActiveCurrency(code string) bool {
	return activeCurrencies[code]
}

// NewFromString parses a decimal string amount (e.g. "100.00") in the
// given currency. Amounts carrying more than Scale fractional digits
// are rejected with ErrInvalidAmount rather than silently rounded,
// since a caller-supplied amount with five fractional digits usually
// signals a client-side unit mistake, not an amount this API should
// guess at.
func NewFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("money: parse amount: %w", err)
	}
	if fractionalDigits(d) > Scale {
		return Money{}, ErrInvalidAmount
	}
	return newMoney(d, currency), nil
}

// fractionalDigits reports how many digits follow the decimal point in
// d's exact (unrounded) representation.
func fractionalDigits(d decimal.Decimal) int {
	exp := d.Exponent()
	if exp >= 0 {
		return 0
	}
	return int(-exp)
}

// NewFromDecimal wraps an already-parsed decimal.Decimal.
func NewFromDecimal(amount decimal.Decimal, currency string) Money {
	return newMoney(amount, currency)
}

// NewFromMinorUnits builds a Money value from an integer count of the
// smallest currency unit at Scale precision (e.g. 1000000 -> 100.0000).
func NewFromMinorUnits(minorUnits int64, currency string) Money {
	d := decimal.New(minorUnits, -Scale)
	return newMoney(d, currency)
}

// Zero returns the zero amount for a currency.
func Zero(currency string) Money {
	return newMoney(decimal.Zero, currency)
}

func newMoney(d decimal.Decimal, currency string) Money {
	return Money{amount: d.Round(Scale), currency: currency}
}

// Currency returns the ISO-4217 currency code.
func (m Money) Currency() string { return m.currency }

// Decimal exposes the underlying decimal value for callers that must
// interoperate with decimal.Decimal directly (e.g. persistence layer
// scanning a NUMERIC column).
func (m Money) Decimal() decimal.Decimal { return m.amount }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Validate enforces the amount-is-positive invariant used by payments
// and refunds; callers needing a zero-or-positive check should test
// IsNegative directly instead.
func (m Money) Validate() error {
	if !m.amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) checkCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}

// Add returns m+other. Fails with ErrCurrencyMismatch when currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	return newMoney(m.amount.Add(other.amount), m.currency), nil
}

// Sub returns m-other. Fails with ErrCurrencyMismatch when currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.checkCurrency(other); err != nil {
		return Money{}, err
	}
	return newMoney(m.amount.Sub(other.amount), m.currency), nil
}

// MulScalar returns m scaled by an integer factor, same currency.
func (m Money) MulScalar(factor int64) Money {
	return newMoney(m.amount.Mul(decimal.NewFromInt(factor)), m.currency)
}

// Cmp compares m to other. Fails with ErrCurrencyMismatch when
// currencies differ. Returns -1, 0, or 1 as per decimal.Decimal.Cmp.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.checkCurrency(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// GreaterThan reports m > other, ignoring a currency mismatch error by
// returning false (callers that care should use Cmp directly).
func (m Money) GreaterThan(other Money) bool {
	cmp, err := m.Cmp(other)
	return err == nil && cmp > 0
}

// String renders the amount as "N.NNNN" for persistence and API
// responses. Currency is rendered separately per the data model.
func (m Money) String() string {
	return m.amount.StringFixed(Scale)
}

// MarshalJSON renders Money as a decimal string, matching the wire
// format specified for response bodies (amounts are decimal strings
// with four fractional digits).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON parses a decimal string back into the amount, leaving
// the currency unset — callers must assign Currency via NewFromDecimal
// composition at the boundary where currency is known.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: unmarshal: %w", err)
	}
	if fractionalDigits(d) > Scale {
		return ErrInvalidAmount
	}
	m.amount = d
	return nil
}
