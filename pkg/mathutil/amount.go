package mathutil

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive decimal number")
	// ErrAmountPrecision is returned if an amount has more fractional digits
	// than those allowed by the asset's decimals.
	ErrAmountPrecision = errors.New("amount has more fractional digits than the asset's decimals")
)

// ToBaseUnits converts a decimal amount expressed in whole asset units (ie.
// "12.5") to the integer number of base units for an asset with the given
// decimals. Amounts that would need rounding are rejected rather than
// truncated.
func ToBaseUnits(amount string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}

	units := d.Shift(int32(decimals))
	if !units.Equal(units.Truncate(0)) {
		return 0, ErrAmountPrecision
	}

	n := units.BigInt()
	if !n.IsUint64() {
		return 0, ErrOverflow
	}
	return n.Uint64(), nil
}

// FromBaseUnits converts an integer number of base units to a decimal amount
// expressed in whole asset units.
func FromBaseUnits(units uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(decimals))
}

// FormatAmount returns the string representation of the given base units
// with exactly decimals fractional digits.
func FormatAmount(units uint64, decimals uint8) string {
	return FromBaseUnits(units, decimals).StringFixed(int32(decimals))
}
