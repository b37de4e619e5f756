// Package money holds amounts as integer cents and converts them to and from
// two-decimal JSON numbers without going through floating point.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// maxIntegerDigits bounds a single amount below one billion units. With at most
// 50 lines of 99 units, a subtotal stays under 5e14 cents, so applying a tax
// rate of up to 10000 basis points cannot overflow int64.
const maxIntegerDigits = 9

var maxAmount = decimal.New(1, maxIntegerDigits)

type Cents int64

func (c Cents) Mul(quantity int) Cents {
	return c * Cents(quantity)
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse reads a non-negative decimal with at most two significant fractional digits.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

func FromDecimal(d decimal.Decimal) (Cents, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}
	if !d.Truncate(2).Equal(d) {
		return 0, fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, d)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return 0, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, d)
	}
	return Cents(d.Shift(2).IntPart()), nil
}

func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}
