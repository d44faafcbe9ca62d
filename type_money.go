package carteira

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in the portfolio currency.
//
// The ledger is single-currency (BRL), so Money carries no currency tag;
// go-money is only used to format amounts for display.
type Money struct {
	value decimal.Decimal // major unit value, full precision
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// brl returns the display currency.
func brl() *money.Currency {
	// the Money constructor is the only way to get a never-nil currency
	return money.New(0, money.BRL).Currency()
}

// String formats the value as BRL with exactly two decimals, rounded half up.
func (m Money) String() string {
	cur := brl()
	cents := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(cents.IntPart())
}

// SignedString is like String but with an explicit sign; zero renders as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money            { return Money{value: m.value.Div(q.value)} }

// PercentOf returns m as a percentage of base, or zero when base is zero.
func (m Money) PercentOf(base Money) Percent {
	if base.value.IsZero() {
		return 0
	}
	return Percent(m.value.Div(base.value).InexactFloat64() * 100)
}

// MarshalJSON implements the json.Marshaler interface for Money.
// The full precision is kept: rounding happens at display time only.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Money.
func (m *Money) UnmarshalJSON(decimalBytes []byte) error {
	return m.value.UnmarshalJSON(decimalBytes)
}

// Percent is a display type for percentages.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
