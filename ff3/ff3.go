// Package ff3 implements the FF3 format-preserving encryption mode of NIST
// SP 800-38G over AES.
//
// FF3 takes a tweak of exactly 8 bytes and runs 8 rounds of an alternating
// Feistel network. Unlike FF1 it enciphers with the byte-reversed key and
// values its numeral strings in reverse order. Message lengths are bounded
// so that each half fits in 96 bits.
package ff3

import (
	"github.com/vdparikh/fpe/v2/ffx"
)

// Cipher is an FF3 instance for one radix, driving the generic FFX engine.
// It is safe for concurrent use.
type Cipher struct {
	radix  int
	engine *ffx.Cipher
}

// New creates an FF3 cipher for numeral strings in base radix.
func New(radix int, opts ...ffx.Option) (*Cipher, error) {
	settings := ffx.NewSettings(opts...)
	params, err := parameters(radix, settings)
	if err != nil {
		return nil, err
	}
	return &Cipher{
		radix:  radix,
		engine: ffx.New(params, opts...),
	}, nil
}

// Parameters returns the FFX parameter set of c.
func (f *Cipher) Parameters() *ffx.Parameters {
	return f.engine.Parameters()
}

// Encrypt enciphers X under key K and the 8-byte tweak T.
func (f *Cipher) Encrypt(K, T []byte, X []int) ([]int, error) {
	return f.engine.Encrypt(K, T, X)
}

// Decrypt inverts Encrypt.
func (f *Cipher) Decrypt(K, T []byte, X []int) ([]int, error) {
	return f.engine.Decrypt(K, T, X)
}

var _ ffx.NumeralCipher = (*Cipher)(nil)
