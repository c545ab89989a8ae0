package wallet

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// NativeDecimals is the fixed base-unit exponent of the network's native coin
// (1 KAIA = 10^18 kei).
const NativeDecimals uint8 = 18

// ParseUnits converts a display-unit decimal string into the integer
// smallest-unit representation for the given decimal count. "0" is a valid
// amount; negative values are not.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount %q", ErrInvalidAmount, amount)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, amount, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatUnits converts an integer smallest-unit value into a display-unit
// decimal string. Trailing zeros are trimmed, so the round-trip through
// ParseUnits is exact up to that normalization.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}
