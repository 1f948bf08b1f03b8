// Package money holds prices and totals as exact decimals with two
// fraction digits. Binary floats never touch stored or accumulated
// amounts; the 2dp representation only appears on the wire.
package money

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("not a valid money amount")

type Money struct {
	d decimal.Decimal
}

func Zero() Money { return Money{} }

// Parse accepts the textual form of a number ("12.34", "7"). The raw
// value is kept; call Round to quantize.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalid
	}
	return Money{d: d}, nil
}

// FromCents rebuilds a Money from its scaled-integer storage form.
func FromCents(c int64) Money {
	return Money{d: decimal.New(c, -2)}
}

// Round quantizes to two fraction digits, half away from zero.
func (m Money) Round() Money {
	return Money{d: m.d.Round(2)}
}

func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

func (m Money) MulInt(n int64) Money {
	return Money{d: m.d.Mul(decimal.NewFromInt(n))}
}

// Cents is the storage form: the rounded amount scaled by 100.
func (m Money) Cents() int64 {
	return m.d.Round(2).Shift(2).IntPart()
}

func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// String always prints two fraction digits, e.g. "9.99", "0.00".
func (m Money) String() string { return m.d.StringFixed(2) }

// MarshalJSON emits a bare JSON number with exactly two fraction digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.StringFixed(2)), nil
}

// UnmarshalJSON accepts a number, a numeric string, or null (-> 0.00).
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*m = Zero()
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var err error
		s, err = strconv.Unquote(s)
		if err != nil {
			return ErrInvalid
		}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
