// Package amount converts on-chain integer values into comparable numbers.
package amount

import (
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common/math"
)

// MaxDecimals is the largest decimals value accepted from a token record
const MaxDecimals = 255

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// ParseUint parses a non-negative decimal integer of arbitrary size.
// Anything other than a plain run of ASCII digits is rejected.
func ParseUint(s string) (*big.Int, bool) {
	if !digitsOnly.MatchString(s) {
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return v, true
}

// Pow10 returns 10^n as a new big.Int
func Pow10(n int) *big.Int {
	if n <= 0 {
		return big.NewInt(1)
	}
	return math.BigPow(10, int64(n))
}

// Rescale returns raw expressed with more decimal places.
// raw is left untouched; to must not be smaller than from.
func Rescale(raw *big.Int, from, to int) *big.Int {
	if to <= from {
		return new(big.Int).Set(raw)
	}
	return new(big.Int).Mul(raw, Pow10(to-from))
}

// Normalize converts an integer-scaled amount into raw / 10^decimals.
// This is the only place a token amount leaves integer precision.
func Normalize(raw *big.Int, decimals int) float64 {
	if raw == nil || raw.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Rat).SetFrac(raw, Pow10(decimals)).Float64()
	return f
}
