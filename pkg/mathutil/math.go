package mathutil

import (
	"errors"
	"math"
	"math/big"
)

var (
	// ErrOverflow is returned if an operation does not fit 64 bits.
	ErrOverflow = errors.New("operation overflowed")
	// ErrUnderflow is returned if a subtraction would go below zero.
	ErrUnderflow = errors.New("operation underflowed")
)

// CheckedAdd takes two uint64 numbers and sum them x + y. It returns an error
// if the result does not fit an uint64.
func CheckedAdd(x, y uint64) (uint64, error) {
	if x > math.MaxUint64-y {
		return 0, ErrOverflow
	}
	return x + y, nil
}

// CheckedSub takes two uint64 numbers and subtract them x - y. It returns an
// error if y is greater than x.
func CheckedSub(x, y uint64) (uint64, error) {
	if y > x {
		return 0, ErrUnderflow
	}
	return x - y, nil
}

// CheckedMul takes two uint64 numbers and multiply them x * y. It returns an
// error if the result does not fit an uint64.
func CheckedMul(x, y uint64) (uint64, error) {
	X, Y := new(big.Int).SetUint64(x), new(big.Int).SetUint64(y)
	z := new(big.Int).Mul(X, Y)
	if !z.IsUint64() {
		return 0, ErrOverflow
	}
	return z.Uint64(), nil
}
