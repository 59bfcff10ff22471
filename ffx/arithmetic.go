package ffx

import (
	"fmt"

	"github.com/vdparikh/fpe/v2/subtle"
)

// ArithmeticFunction combines two numeral strings of equal length, and
// undoes the combination.
type ArithmeticFunction interface {
	Add(x, y []int, radix int) ([]int, error)
	Subtract(x, y []int, radix int) ([]int, error)
}

var (
	// Blockwise treats each string as one integer modulo radix^m (FF1, FF2).
	Blockwise ArithmeticFunction = blockwise{}

	// ReversedBlockwise values both strings with their numerals reversed and
	// reverses the result (FF3).
	ReversedBlockwise ArithmeticFunction = reversedBlockwise{}

	// Characterwise adds numeral by numeral modulo radix.
	Characterwise ArithmeticFunction = characterwise{}
)

type blockwise struct{}

func (blockwise) Add(x, y []int, radix int) ([]int, error) {
	return blockOp(x, y, radix, false)
}

func (blockwise) Subtract(x, y []int, radix int) ([]int, error) {
	return blockOp(x, y, radix, true)
}

func blockOp(x, y []int, radix int, sub bool) ([]int, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: arithmetic on %d and %d numerals", subtle.ErrLength, len(x), len(y))
	}
	a, err := subtle.NumRadix(x, radix)
	if err != nil {
		return nil, err
	}
	b, err := subtle.NumRadix(y, radix)
	if err != nil {
		return nil, err
	}
	if sub {
		a.Sub(a, b)
	} else {
		a.Add(a, b)
	}
	c, err := subtle.Mod(a, subtle.Pow(radix, len(x)))
	if err != nil {
		return nil, err
	}
	return subtle.StrMRadix(c, radix, len(x))
}

type reversedBlockwise struct{}

func (reversedBlockwise) Add(x, y []int, radix int) ([]int, error) {
	c, err := blockOp(subtle.Rev(x), subtle.Rev(y), radix, false)
	if err != nil {
		return nil, err
	}
	return subtle.Rev(c), nil
}

func (reversedBlockwise) Subtract(x, y []int, radix int) ([]int, error) {
	c, err := blockOp(subtle.Rev(x), subtle.Rev(y), radix, true)
	if err != nil {
		return nil, err
	}
	return subtle.Rev(c), nil
}

type characterwise struct{}

func (characterwise) Add(x, y []int, radix int) ([]int, error) {
	return charOp(x, y, radix, 1)
}

func (characterwise) Subtract(x, y []int, radix int) ([]int, error) {
	return charOp(x, y, radix, -1)
}

func charOp(x, y []int, radix, sign int) ([]int, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: arithmetic on %d and %d numerals", subtle.ErrLength, len(x), len(y))
	}
	if err := subtle.CheckNumerals(x, radix); err != nil {
		return nil, err
	}
	if err := subtle.CheckNumerals(y, radix); err != nil {
		return nil, err
	}
	out := make([]int, len(x))
	for i := range x {
		r, err := subtle.ModInt(x[i]+sign*y[i], radix)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
