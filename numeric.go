package fpe

import (
	"fmt"
	"strings"

	"github.com/vdparikh/fpe/v2/subtle"
)

// Alphabet maps characters to numerals and back. The numeral of a character
// is its position in the alphabet, so the radix is the alphabet size.
type Alphabet struct {
	chars []rune
	index map[rune]int
}

// NewAlphabet builds an Alphabet from chars, which must hold at least two
// distinct characters and no duplicates.
func NewAlphabet(chars string) (*Alphabet, error) {
	runes := []rune(chars)
	if len(runes) < subtle.MinRadix || len(runes) > subtle.MaxRadix {
		return nil, fmt.Errorf("%w: alphabet of %d characters", subtle.ErrRadix, len(runes))
	}
	index := make(map[rune]int, len(runes))
	for i, char := range runes {
		if _, dup := index[char]; dup {
			return nil, fmt.Errorf("alphabet repeats character %q", char)
		}
		index[char] = i
	}
	return &Alphabet{chars: runes, index: index}, nil
}

// Radix returns the number of characters in a.
func (a *Alphabet) Radix() int {
	return len(a.chars)
}

// String returns the characters of a in numeral order.
func (a *Alphabet) String() string {
	return string(a.chars)
}

// Contains reports whether char belongs to a.
func (a *Alphabet) Contains(char rune) bool {
	_, ok := a.index[char]
	return ok
}

// Encode converts s to numerals. Characters outside the alphabet are an
// error.
func (a *Alphabet) Encode(s string) ([]int, error) {
	result := make([]int, 0, len(s))
	for _, char := range s {
		idx, ok := a.index[char]
		if !ok {
			return nil, fmt.Errorf("%w: character %q is not in the alphabet", subtle.ErrDomain, char)
		}
		result = append(result, idx)
	}
	return result, nil
}

// Decode converts numerals back to characters.
func (a *Alphabet) Decode(x []int) (string, error) {
	var sb strings.Builder
	for i, d := range x {
		if d < 0 || d >= len(a.chars) {
			return "", fmt.Errorf("%w: numeral %d at index %d (radix %d)", subtle.ErrDomain, d, i, len(a.chars))
		}
		sb.WriteRune(a.chars[d])
	}
	return sb.String(), nil
}

// Split is SeparateFormatAndData with a's characters as the data characters.
func (a *Alphabet) Split(s string) ([]bool, string) {
	var formatMask []bool
	var sb strings.Builder
	for _, char := range s {
		if a.Contains(char) {
			formatMask = append(formatMask, false)
			sb.WriteRune(char)
		} else {
			formatMask = append(formatMask, true)
		}
	}
	return formatMask, sb.String()
}
