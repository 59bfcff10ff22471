package subtle

import (
	"fmt"
	"math/big"
)

// ByteString returns the big-endian representation of x in exactly s bytes
// ([x]^s). It fails if x is negative or x >= 256^s.
func ByteString(x *big.Int, s int) ([]byte, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: byte string value", ErrNilArgument)
	}
	if s < 1 || s > MaxLen {
		return nil, fmt.Errorf("%w: byte string of %d bytes (want 1..%d)", ErrLength, s, MaxLen)
	}
	if x.Sign() < 0 {
		return nil, fmt.Errorf("%w: byte string of negative value %s", ErrDomain, x)
	}
	if x.BitLen() > 8*s {
		return nil, fmt.Errorf("%w: %s does not fit in %d bytes", ErrDomain, x, s)
	}
	return x.FillBytes(make([]byte, s)), nil
}

// ByteStringInt is ByteString for machine integers.
func ByteStringInt(x, s int) ([]byte, error) {
	return ByteString(big.NewInt(int64(x)), s)
}

// BitString returns s bits, all set to bit, as s/8 bytes. s must be a
// positive multiple of 8.
func BitString(bit bool, s int) ([]byte, error) {
	if s <= 0 || s%8 != 0 || s/8 > MaxLen {
		return nil, fmt.Errorf("%w: bit string of %d bits", ErrLength, s)
	}
	out := make([]byte, s/8)
	if bit {
		for i := range out {
			out[i] = 0xFF
		}
	}
	return out, nil
}

// Concatenate returns a || b in a new slice.
func Concatenate(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	return out
}

// ConcatenateNumerals returns a || b in a new slice.
func ConcatenateNumerals(a, b []int) []int {
	out := make([]int, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	return out
}

// Xor returns a ⊕ b. The operands must have the same length.
func Xor(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: xor of %d and %d bytes", ErrLength, len(a), len(b))
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

// Rev returns the numerals of x in reverse order (REV).
func Rev(x []int) []int {
	out := make([]int, len(x))
	for i, d := range x {
		out[len(x)-1-i] = d
	}
	return out
}

// RevB returns the bytes of x in reverse order (REVB). x is not modified.
func RevB(x []byte) []byte {
	out := make([]byte, len(x))
	for i, b := range x {
		out[len(x)-1-i] = b
	}
	return out
}
