package fpe

import (
	"fmt"
	"unicode/utf8"

	"github.com/vdparikh/fpe/v2/subtle"
)

// Alphabets chosen by DetermineAlphabet.
const (
	Digits       = "0123456789"
	Letters      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	Alphanumeric = Digits + Letters
)

// SeparateFormatAndData separates format characters (hyphens, dots, etc.) from data characters.
// Returns a format mask with one entry per rune of s (true = format char, false = data char)
// and the data characters only.
// Format characters are everything that is not an ASCII letter or digit: hyphens (-), dots (.),
// colons (:), at signs (@), spaces, non-ASCII runes, etc.
func SeparateFormatAndData(s string) ([]bool, string) {
	formatMask := make([]bool, 0, utf8.RuneCountInString(s))
	dataChars := make([]byte, 0, len(s))

	for _, char := range s {
		if isData(char) {
			formatMask = append(formatMask, false)
			dataChars = append(dataChars, byte(char))
		} else {
			// Format character: preserve position
			formatMask = append(formatMask, true)
		}
	}

	return formatMask, string(dataChars)
}

func isData(char rune) bool {
	return (char >= '0' && char <= '9') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= 'a' && char <= 'z')
}

// ReconstructWithFormat reconstructs a string with format characters in their original positions.
// data must hold exactly one character per false entry of formatMask.
func ReconstructWithFormat(data string, formatMask []bool, original string) (string, error) {
	orig := []rune(original)
	chars := []rune(data)
	if len(orig) != len(formatMask) {
		return "", fmt.Errorf("%w: format mask has %d entries for %d characters", subtle.ErrLength, len(formatMask), len(orig))
	}

	result := make([]rune, len(formatMask))
	dataIdx := 0
	for i, isFormat := range formatMask {
		if isFormat {
			// Preserve format character from original
			result[i] = orig[i]
			continue
		}
		if dataIdx >= len(chars) {
			return "", fmt.Errorf("%w: %d data characters for a mask that needs more", subtle.ErrLength, len(chars))
		}
		result[i] = chars[dataIdx]
		dataIdx++
	}
	if dataIdx != len(chars) {
		return "", fmt.Errorf("%w: %d data characters for a mask that needs %d", subtle.ErrLength, len(chars), dataIdx)
	}

	return string(result), nil
}

// DetermineAlphabet determines the alphabet (character set) from the plaintext.
// Only considers alphanumeric characters (format chars are handled separately).
func DetermineAlphabet(plaintext string) string {
	hasLetters := false
	hasDigits := false

	for _, char := range plaintext {
		if char >= '0' && char <= '9' {
			hasDigits = true
		} else if (char >= 'A' && char <= 'Z') || (char >= 'a' && char <= 'z') {
			hasLetters = true
		}
	}

	switch {
	case hasDigits && hasLetters:
		return Alphanumeric
	case hasLetters:
		return Letters
	default:
		// Default: numeric
		return Digits
	}
}
