// Package subtle provides the low-level building blocks of NIST SP 800-38G
// format-preserving encryption: numeral-string and byte-string conversions,
// modular arithmetic, and the AES-based CIPH and PRF functions.
//
// It should not be used directly by most users; instead use the ff1, ff2 and
// ff3 packages, or the tokenizer in the parent package.
package subtle

const (
	// MaxLen bounds the length of byte strings and numeral strings accepted
	// by the primitives in this package.
	MaxLen = 4096

	// BlockSize is the block size of the underlying block cipher, in bytes.
	BlockSize = 16

	// MinRadix and MaxRadix bound the radix supported by FF1 and FF3.
	MinRadix = 2
	MaxRadix = 65536

	// MinRadixFF2 and MaxRadixFF2 bound the radix supported by FF2, whose
	// numerals must be representable in one byte.
	MinRadixFF2 = 2
	MaxRadixFF2 = 256

	// MinDomain is the smallest permitted value of radix^n.
	MinDomain = 100
)
