// Package money converts between stored minor currency units and decimal amounts.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dtroode/amcbunq-server/internal/model"
)

// minorExp is the number of fraction digits of the supported currencies.
const minorExp = 2

// FromMinor returns amount in major units, e.g. 1050 -> 10.50.
func FromMinor(amount int64) decimal.Decimal {
	return decimal.New(amount, -minorExp)
}

// ToMinor converts a major-unit amount to minor units. Amounts with more
// fraction digits than the currency has are rejected.
func ToMinor(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(minorExp)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s has more than %d decimal places", model.ErrInvalidArgument, d.String(), minorExp)
	}
	if !shifted.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: amount %s is out of range", model.ErrInvalidArgument, d.String())
	}
	return shifted.IntPart(), nil
}

// Parse reads a decimal string such as "12.5" into minor units.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", model.ErrInvalidArgument, s)
	}
	return ToMinor(d)
}

// Format renders minor units with the currency's fraction digits, e.g. "10.50".
func Format(amount int64) string {
	return FromMinor(amount).StringFixed(minorExp)
}
