package subtle

import (
	"fmt"
	"math/big"
)

// Num returns the integer whose big-endian byte representation is x, the
// NUM function of NIST SP 800-38G. len(x) must be in [1, MaxLen].
func Num(x []byte) (*big.Int, error) {
	if len(x) < 1 || len(x) > MaxLen {
		return nil, fmt.Errorf("%w: NUM input is %d bytes (want 1..%d)", ErrLength, len(x), MaxLen)
	}
	return new(big.Int).SetBytes(x), nil
}

// NumRadix returns the number that the numeral string x represents in base
// radix when the numerals are valued in decreasing order of significance
// (NUM_radix). Every numeral must lie in [0, radix). The empty string is 0.
func NumRadix(x []int, radix int) (*big.Int, error) {
	if err := checkRadix(radix); err != nil {
		return nil, err
	}
	if len(x) > MaxLen {
		return nil, fmt.Errorf("%w: NUM_radix input is %d numerals (max %d)", ErrLength, len(x), MaxLen)
	}

	result := new(big.Int)
	radixBig := big.NewInt(int64(radix))
	digit := new(big.Int)
	for i, d := range x {
		if d < 0 || d >= radix {
			return nil, fmt.Errorf("%w: numeral %d at index %d (radix %d)", ErrDomain, d, i, radix)
		}
		result.Mul(result, radixBig)
		result.Add(result, digit.SetInt64(int64(d)))
	}
	return result, nil
}

// StrMRadix returns the representation of x as a string of exactly m
// numerals in base radix, most significant numeral first (STR^m_radix).
//
// NIST requires x < radix^m. When it is not, only the m least significant
// numerals are kept; the FFX engine relies on this for intermediate values.
func StrMRadix(x *big.Int, radix, m int) ([]int, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: STR_m_radix value", ErrNilArgument)
	}
	if err := checkRadix(radix); err != nil {
		return nil, err
	}
	if m < 0 || m > MaxLen {
		return nil, fmt.Errorf("%w: STR_m_radix length %d (max %d)", ErrLength, m, MaxLen)
	}
	if x.Sign() < 0 {
		return nil, fmt.Errorf("%w: STR_m_radix of negative value %s", ErrDomain, x)
	}

	result := make([]int, m)
	radixBig := big.NewInt(int64(radix))
	temp := new(big.Int).Set(x)
	var remainder big.Int

	for i := m - 1; i >= 0; i-- {
		temp.DivMod(temp, radixBig, &remainder)
		result[i] = int(remainder.Int64())
	}

	return result, nil
}

// Pow returns radix^m.
func Pow(radix, m int) *big.Int {
	return new(big.Int).Exp(big.NewInt(int64(radix)), big.NewInt(int64(m)), nil)
}

// CheckNumerals verifies that every numeral of x lies in [0, radix).
func CheckNumerals(x []int, radix int) error {
	for i, d := range x {
		if d < 0 || d >= radix {
			return fmt.Errorf("%w: numeral %d at index %d (radix %d)", ErrDomain, d, i, radix)
		}
	}
	return nil
}

// CheckDomain verifies the entropy floor radix^n >= MinDomain.
func CheckDomain(radix, n int) error {
	if Pow(radix, n).Cmp(big.NewInt(MinDomain)) < 0 {
		return fmt.Errorf("%w: radix=%d, length=%d (radix^length must be at least %d)", ErrEntropy, radix, n, MinDomain)
	}
	return nil
}

func checkRadix(radix int) error {
	if radix < MinRadix || radix > MaxRadix {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrRadix, radix, MinRadix, MaxRadix)
	}
	return nil
}

// MinLength returns the least m >= 2 with radix^m >= MinDomain.
func MinLength(radix int) int {
	m, size := 1, radix
	for size < MinDomain || m < 2 {
		m++
		size *= radix
	}
	return m
}
