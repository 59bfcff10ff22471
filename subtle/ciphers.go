package subtle

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Ciphers exposes the CIPH and PRF functions of NIST SP 800-38G for one AES
// key. The key schedule is fixed at construction and cipher.Block encryption
// holds no state, so a Ciphers value is safe for concurrent use.
type Ciphers struct {
	block cipher.Block
}

// ValidKey reports whether key is an AES-128, AES-192 or AES-256 key.
func ValidKey(key []byte) error {
	if key == nil {
		return fmt.Errorf("%w: key", ErrNilArgument)
	}
	switch len(key) {
	case 16, 24, 32:
		return nil
	}
	return fmt.Errorf("%w: got %d bytes", ErrKeySize, len(key))
}

// NewCiphers expands key into an AES key schedule.
func NewCiphers(key []byte) (*Ciphers, error) {
	if err := ValidKey(key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES block: %w", err)
	}
	return &Ciphers{block: block}, nil
}

// CIPH encrypts x block by block (ECB, no padding). len(x) must be a
// multiple of BlockSize in [BlockSize, MaxLen].
func (c *Ciphers) CIPH(x []byte) ([]byte, error) {
	if err := checkBlocks(x); err != nil {
		return nil, err
	}
	out := make([]byte, len(x))
	for i := 0; i < len(x); i += BlockSize {
		c.block.Encrypt(out[i:i+BlockSize], x[i:i+BlockSize])
	}
	return out, nil
}

// PRF implements NIST SP 800-38G Algorithm 6: with X = X_1 || ... || X_m,
// Y_0 = 0^128 and Y_j = CIPH(Y_{j-1} ⊕ X_j), it returns Y_m.
func (c *Ciphers) PRF(x []byte) ([]byte, error) {
	if err := checkBlocks(x); err != nil {
		return nil, err
	}
	y := make([]byte, BlockSize)
	for j := 0; j < len(x); j += BlockSize {
		for k := 0; k < BlockSize; k++ {
			y[k] ^= x[j+k]
		}
		c.block.Encrypt(y, y)
	}
	return y, nil
}

// PRF2 computes the same value as PRF through the CBC mode of the block
// cipher with a zero IV, keeping only the last output block.
func (c *Ciphers) PRF2(x []byte) ([]byte, error) {
	if err := checkBlocks(x); err != nil {
		return nil, err
	}
	out := make([]byte, len(x))
	cipher.NewCBCEncrypter(c.block, make([]byte, BlockSize)).CryptBlocks(out, x)
	return out[len(out)-BlockSize:], nil
}

// Ciph is CIPH_K(X) with a key schedule built for this call.
func Ciph(key, x []byte) ([]byte, error) {
	c, err := NewCiphers(key)
	if err != nil {
		return nil, err
	}
	return c.CIPH(x)
}

// PRF is PRF_K(X) with a key schedule built for this call.
func PRF(key, x []byte) ([]byte, error) {
	c, err := NewCiphers(key)
	if err != nil {
		return nil, err
	}
	return c.PRF(x)
}

// PRF2 is the CBC-mode rendition of PRF_K(X).
func PRF2(key, x []byte) ([]byte, error) {
	c, err := NewCiphers(key)
	if err != nil {
		return nil, err
	}
	return c.PRF2(x)
}

func checkBlocks(x []byte) error {
	if len(x) < 1 || len(x) > MaxLen {
		return fmt.Errorf("%w: cipher input is %d bytes (want 1..%d)", ErrLength, len(x), MaxLen)
	}
	if len(x)%BlockSize != 0 {
		return fmt.Errorf("%w: cipher input is %d bytes, not a multiple of %d", ErrLength, len(x), BlockSize)
	}
	return nil
}
