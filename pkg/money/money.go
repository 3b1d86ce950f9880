package money

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrOverflow reports an amount outside the representable range
var ErrOverflow = errors.New("amount out of range")

// Amount is a quantity of the settlement currency in its smallest unit.
// All pricing arithmetic in the engine happens on Amount; decimal values
// only appear at the API and configuration edges.
type Amount = int64

// Converter translates between human-readable decimal currency values
// and integer base units.
type Converter struct {
	decimals int32
}

// NewConverter creates a Converter for a currency with the given number
// of decimal places (18 for wei-style units, 2 for cent-style units).
func NewConverter(decimals int32) (*Converter, error) {
	if decimals < 0 || decimals > 18 {
		return nil, fmt.Errorf("decimals must be between 0 and 18, got %d", decimals)
	}
	return &Converter{decimals: decimals}, nil
}

// Parse converts a decimal string such as "0.1" into base units.
// Values with more precision than the currency supports are rejected
// rather than silently truncated.
func (c *Converter) Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative: %s", s)
	}
	scaled := d.Shift(c.decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %s exceeds currency precision (%d decimals)", s, c.decimals)
	}
	if !scaled.IsInteger() || !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s out of range", s)
	}
	return scaled.BigInt().Int64(), nil
}

// Format converts base units back into a decimal string.
func (c *Converter) Format(a Amount) string {
	return decimal.New(a, -c.decimals).String()
}

// Decimals returns the number of decimal places of the currency.
func (c *Converter) Decimals() int32 {
	return c.decimals
}

// Percent returns a*pct/100. The intermediate product is computed in
// big-integer arithmetic: 18-decimal amounts multiplied by a percentage
// do not fit in 64 bits. With 0 <= pct <= 100 the result never exceeds a.
func Percent(a Amount, pct int64) Amount {
	p := new(big.Int).Mul(big.NewInt(a), big.NewInt(pct))
	p.Quo(p, big.NewInt(100))
	return p.Int64()
}

// Add sums two amounts, failing with ErrOverflow instead of wrapping.
func Add(a, b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOverflow
	}
	return sum, nil
}
