package subtle

import (
	"fmt"
	"math"
	"math/big"
)

// Mod returns x mod m in [0, m). m must be positive.
func Mod(x, m *big.Int) (*big.Int, error) {
	if x == nil || m == nil {
		return nil, fmt.Errorf("%w: mod operand", ErrNilArgument)
	}
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus %s must be positive", ErrDomain, m)
	}
	// big.Int.Mod is Euclidean: the result is never negative.
	return new(big.Int).Mod(x, m), nil
}

// ModInt returns x mod m in [0, m). m must be positive.
func ModInt(x, m int) (int, error) {
	if m <= 0 {
		return 0, fmt.Errorf("%w: modulus %d must be positive", ErrDomain, m)
	}
	r := x % m
	if r < 0 {
		r += m
	}
	return r, nil
}

// Floor returns the largest integer not greater than x.
func Floor(x float64) int {
	return int(math.Floor(x))
}

// Ceiling returns the least integer not less than x.
func Ceiling(x float64) int {
	return int(math.Ceil(x))
}

// Log2 returns the base-2 logarithm of x, which must be positive.
func Log2(x float64) (float64, error) {
	if x <= 0 {
		return 0, fmt.Errorf("%w: log2 of %v", ErrDomain, x)
	}
	return math.Log2(x), nil
}
