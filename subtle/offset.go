package subtle

import "fmt"

// Offset derives a per-tweak block that can be mixed into a cipher input.
//
// Offsets are experimental: none of FF1, FF2 or FF3 uses one.
type Offset interface {
	Off(key, tweak []byte) ([]byte, error)
}

// ZeroOffset always yields 0^128 (OFF1).
type ZeroOffset struct{}

// Off returns BlockSize zero bytes after checking the key.
func (ZeroOffset) Off(key, _ []byte) ([]byte, error) {
	if err := ValidKey(key); err != nil {
		return nil, err
	}
	return make([]byte, BlockSize), nil
}

// CipherOffset yields CIPH_K(T) (OFF2). The tweak must be one block.
type CipherOffset struct{}

// Off encrypts the tweak under key.
func (CipherOffset) Off(key, tweak []byte) ([]byte, error) {
	if len(tweak) != BlockSize {
		return nil, fmt.Errorf("%w: offset tweak is %d bytes (want %d)", ErrTweakLength, len(tweak), BlockSize)
	}
	return Ciph(key, tweak)
}

var (
	_ Offset = ZeroOffset{}
	_ Offset = CipherOffset{}
)
