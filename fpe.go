// Package fpe implements format-aware tokenization on top of the NIST SP
// 800-38G format-preserving encryption modes FF1 and FF3.
//
// A Tokenizer preserves the layout of its input (e.g., SSN format
// XXX-XX-XXXX, credit card numbers, email addresses): punctuation and other
// format characters stay in place and only the alphanumeric data characters
// are enciphered, with a radix chosen from the characters present.
//
// The numeral-level ciphers live in the ff1, ff2 and ff3 packages. Tink
// integration is provided by the tinkfpe package (see tink.go).
//
// Example usage:
//
//	key := make([]byte, 32) // AES-256 key from your key management system
//	tweak := []byte("tenant-1234|customer.ssn")
//
//	tok, err := fpe.NewFF1(key, tweak)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Tokenize (encrypt) while preserving format
//	tokenized, err := tok.Tokenize("123-45-6789")
//	if err != nil {
//		log.Fatal(err)
//	}
//	// tokenized might be "987-65-4321" (same format, different data)
//
//	// Detokenize (decrypt) to recover original
//	plaintext, err := tok.Detokenize(tokenized, "123-45-6789")
//	if err != nil {
//		log.Fatal(err)
//	}
//	// plaintext will be "123-45-6789"
package fpe

import (
	"fmt"
	"sync"

	"github.com/vdparikh/fpe/v2/ff1"
	"github.com/vdparikh/fpe/v2/ff3"
	"github.com/vdparikh/fpe/v2/ffx"
	"github.com/vdparikh/fpe/v2/subtle"
)

// Variant names the NIST mode a Tokenizer enciphers with.
type Variant string

const (
	// VariantFF1 accepts tweaks of any length and long messages.
	VariantFF1 Variant = "FF1"
	// VariantFF3 requires an 8-byte tweak and bounds the message length by
	// radix (at most 32 data characters for the alphanumeric alphabet).
	VariantFF3 Variant = "FF3"
)

// Tokenizer enciphers the data characters of a string with FF1 or FF3 under
// a fixed key and tweak. It is safe for concurrent use.
type Tokenizer struct {
	key     []byte
	tweak   []byte
	variant Variant
	opts    []ffx.Option

	// radix -> ffx.NumeralCipher
	ciphers sync.Map
}

// NewFF1 creates a Tokenizer that uses FF1. The key must be 16, 24 or 32
// bytes (AES-128, AES-192 or AES-256). The tweak is a public, non-secret
// value that ensures different ciphertexts for the same plaintext when the
// tweak changes.
func NewFF1(key, tweak []byte, opts ...ffx.Option) (*Tokenizer, error) {
	return NewTokenizer(VariantFF1, key, tweak, opts...)
}

// NewFF3 creates a Tokenizer that uses FF3. The tweak must be exactly 8
// bytes.
func NewFF3(key, tweak []byte, opts ...ffx.Option) (*Tokenizer, error) {
	return NewTokenizer(VariantFF3, key, tweak, opts...)
}

// NewTokenizer creates a Tokenizer for the given variant.
func NewTokenizer(variant Variant, key, tweak []byte, opts ...ffx.Option) (*Tokenizer, error) {
	if err := subtle.ValidKey(key); err != nil {
		return nil, err
	}
	switch variant {
	case VariantFF1:
	case VariantFF3:
		if len(tweak) != 8 {
			return nil, fmt.Errorf("%w: FF3 tweak is %d bytes (want 8)", subtle.ErrTweakLength, len(tweak))
		}
	default:
		return nil, fmt.Errorf("unknown FPE variant %q", variant)
	}
	return &Tokenizer{
		key:     append([]byte(nil), key...),
		tweak:   append([]byte(nil), tweak...),
		variant: variant,
		opts:    opts,
	}, nil
}

// Variant returns the mode t enciphers with.
func (t *Tokenizer) Variant() Variant {
	return t.variant
}

// Tokenize encrypts plaintext using format-preserving encryption.
// It preserves format characters (hyphens, dots, colons, @ signs, etc.) and
// only encrypts the alphanumeric data characters.
//
// Returns the tokenized (encrypted) value that maintains the same format as
// the input. A plaintext without data characters is returned unchanged.
func (t *Tokenizer) Tokenize(plaintext string) (string, error) {
	// Step 1: Separate format characters (hyphens, dots, etc.) from data characters
	formatMask, dataChars := SeparateFormatAndData(plaintext)
	if dataChars == "" {
		return plaintext, nil
	}

	// Step 2: Determine the alphabet for data characters only
	alphabet, err := NewAlphabet(DetermineAlphabet(dataChars))
	if err != nil {
		return "", err
	}

	// Step 3: Encrypt the data characters as numerals
	tokenizedData, err := t.transform(alphabet, dataChars, true)
	if err != nil {
		return "", fmt.Errorf("failed to tokenize: %w", err)
	}

	// Step 4: Reconstruct with format
	return ReconstructWithFormat(tokenizedData, formatMask, plaintext)
}

// Detokenize decrypts a tokenized value. The alphabet is determined from
// originalPlaintext when it is given, otherwise from the tokenized data
// characters, which may pick a narrower alphabet than was used to tokenize.
//
// For best results, pass the original plaintext or use
// DetokenizeWithAlphabet.
func (t *Tokenizer) Detokenize(tokenized string, originalPlaintext string) (string, error) {
	source := tokenized
	if originalPlaintext != "" {
		source = originalPlaintext
	}
	_, dataChars := SeparateFormatAndData(source)
	return t.DetokenizeWithAlphabet(tokenized, DetermineAlphabet(dataChars))
}

// DetokenizeWithAlphabet decrypts a tokenized value whose data characters
// were enciphered over alphabet.
func (t *Tokenizer) DetokenizeWithAlphabet(tokenized, alphabet string) (string, error) {
	formatMask, dataChars := SeparateFormatAndData(tokenized)
	if dataChars == "" {
		return tokenized, nil
	}

	a, err := NewAlphabet(alphabet)
	if err != nil {
		return "", err
	}

	plaintextData, err := t.transform(a, dataChars, false)
	if err != nil {
		return "", fmt.Errorf("failed to detokenize: %w", err)
	}
	return ReconstructWithFormat(plaintextData, formatMask, tokenized)
}

// TokenizeWithAlphabet encrypts plaintext, treating every character of
// alphabet as a data character and everything else as format.
func (t *Tokenizer) TokenizeWithAlphabet(plaintext, alphabet string) (string, error) {
	a, err := NewAlphabet(alphabet)
	if err != nil {
		return "", err
	}
	formatMask, dataChars := a.Split(plaintext)
	if dataChars == "" {
		return plaintext, nil
	}
	tokenizedData, err := t.transform(a, dataChars, true)
	if err != nil {
		return "", fmt.Errorf("failed to tokenize: %w", err)
	}
	return ReconstructWithFormat(tokenizedData, formatMask, plaintext)
}

func (t *Tokenizer) transform(a *Alphabet, data string, encrypt bool) (string, error) {
	x, err := a.Encode(data)
	if err != nil {
		return "", err
	}
	c, err := t.cipher(a.Radix())
	if err != nil {
		return "", err
	}
	var y []int
	if encrypt {
		y, err = c.Encrypt(t.key, t.tweak, x)
	} else {
		y, err = c.Decrypt(t.key, t.tweak, x)
	}
	if err != nil {
		return "", err
	}
	return a.Decode(y)
}

// cipher returns the numeral cipher for radix, building it on first use.
func (t *Tokenizer) cipher(radix int) (ffx.NumeralCipher, error) {
	if c, ok := t.ciphers.Load(radix); ok {
		return c.(ffx.NumeralCipher), nil
	}

	var c ffx.NumeralCipher
	var err error
	switch t.variant {
	case VariantFF3:
		c, err = ff3.New(radix, t.opts...)
	default:
		c, err = ff1.New(radix, len(t.tweak), t.opts...)
	}
	if err != nil {
		return nil, err
	}
	actual, _ := t.ciphers.LoadOrStore(radix, c)
	return actual.(ffx.NumeralCipher), nil
}
