package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RupeeSymbol prefixes formatted amounts.
const RupeeSymbol = "₹"

// Money represents a monetary amount with proper financial precision
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

// NewMoneyFromString creates a new Money instance from a string.
// Thousands separators are tolerated.
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the money amount to paise
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// RoundRupees rounds half away from zero to whole rupees.
func (m Money) RoundRupees() Money {
	return Money{m.Decimal.Round(0)}
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// Div divides by a decimal factor
func (m Money) Div(factor decimal.Decimal) Money {
	return Money{m.Decimal.Div(factor)}
}

// GreaterThan checks if this amount is greater than another
func (m Money) GreaterThan(other Money) bool {
	return m.Decimal.GreaterThan(other.Decimal)
}

// LessThan checks if this amount is less than another
func (m Money) LessThan(other Money) bool {
	return m.Decimal.LessThan(other.Decimal)
}

// Equal checks if this amount equals another
func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the string representation with two decimals
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// GroupIndian formats whole rupees with Indian digit grouping
// (last three digits, then pairs): 1234567 -> "12,34,567".
func (m Money) GroupIndian() string {
	s := m.RoundRupees().Decimal.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		s = strings.Join(parts, ",") + "," + tail
	}
	if neg && s != "0" {
		return "-" + s
	}
	return s
}

// FormatINR formats the amount as rupees without decimals, e.g. "₹57,395".
func (m Money) FormatINR() string {
	g := m.GroupIndian()
	if strings.HasPrefix(g, "-") {
		return "-" + RupeeSymbol + strings.TrimPrefix(g, "-")
	}
	return RupeeSymbol + g
}

// Format formats the money amount with proper currency formatting
func (m Money) Format() string {
	return m.FormatINR()
}
