package models

import (
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept for every price column
const MoneyScale = 2

// Money is a fixed-point amount stored as decimal(10,2) and rendered as a
// two-place string ("12.00"), never as a binary float.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d to MoneyScale places
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(MoneyScale)}
}

// MustMoney parses a literal amount and panics on malformed input
func MustMoney(s string) Money {
	return NewMoney(decimal.RequireFromString(s))
}

// Add returns m + other, rounded
func (m Money) Add(other Money) Money {
	return NewMoney(m.Decimal.Add(other.Decimal))
}

// Mul returns m * n, rounded
func (m Money) Mul(n int64) Money {
	return NewMoney(m.Decimal.Mul(decimal.NewFromInt(n)))
}

func (m Money) String() string {
	return m.StringFixed(MoneyScale)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}
