package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount for display.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the money amount to cents
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// String returns the amount with two decimals and no grouping.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as "$1,234.5" style text with the given number
// of decimal places. Negative amounts are prefixed with "-".
func (m Money) Format(places int32) string {
	s := Group(m.Decimal.Abs().StringFixed(places))
	if m.Decimal.Round(places).IsNegative() {
		return "-$" + s
	}
	return "$" + s
}

// Percent renders a fraction as a percentage, 0.0512 -> "5.1%".
func Percent(fraction decimal.Decimal, places int32) string {
	return fraction.Shift(2).StringFixed(places) + "%"
}

// Integer renders a value rounded to a whole number without grouping.
func Integer(d decimal.Decimal) string {
	return d.Round(0).String()
}

// Group inserts thousands separators into the integer part of a plain
// decimal string.
func Group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
