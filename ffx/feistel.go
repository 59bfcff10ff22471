package ffx

import (
	"fmt"

	"github.com/vdparikh/fpe/v2/subtle"
)

// NumeralCipher is implemented by every cipher in this module: the generic
// engine and the FF1, FF2 and FF3 ciphers.
type NumeralCipher interface {
	Encrypt(key, tweak []byte, x []int) ([]int, error)
	Decrypt(key, tweak []byte, y []int) ([]int, error)
}

// Cipher runs the FFX Feistel network described by a Parameters value.
// It holds no per-call state and is safe for concurrent use.
type Cipher struct {
	params   *Parameters
	settings Settings
}

// New returns a Cipher over params.
func New(params *Parameters, opts ...Option) *Cipher {
	return &Cipher{params: params, settings: NewSettings(opts...)}
}

// Parameters returns the parameter set of c.
func (c *Cipher) Parameters() *Parameters {
	return c.params
}

// Encrypt enciphers the numeral string x under key and tweak. The result
// has the same length as x.
func (c *Cipher) Encrypt(key, tweak []byte, x []int) ([]int, error) {
	if err := c.params.Validate(key, tweak, x); err != nil {
		return nil, err
	}
	if c.params.Method() == MethodOne {
		return c.encryptOne(key, tweak, x)
	}
	return c.encryptTwo(key, tweak, x)
}

// Decrypt inverts Encrypt.
func (c *Cipher) Decrypt(key, tweak []byte, y []int) ([]int, error) {
	if err := c.params.Validate(key, tweak, y); err != nil {
		return nil, err
	}
	if c.params.Method() == MethodOne {
		return c.decryptOne(key, tweak, y)
	}
	return c.decryptTwo(key, tweak, y)
}

func (c *Cipher) encryptTwo(key, tweak []byte, x []int) ([]int, error) {
	p := c.params
	n := len(x)
	l := p.Split(n)
	r := p.Rounds(n)

	A := subtle.ConcatenateNumerals(x[:l], nil)
	B := subtle.ConcatenateNumerals(x[l:], nil)

	for i := 0; i < r; i++ {
		y, err := c.round(key, n, tweak, i, B, len(A))
		if err != nil {
			return nil, err
		}
		C, err := p.Arithmetic().Add(A, y, p.Radix())
		if err != nil {
			return nil, err
		}
		A, B = B, C

		if c.settings.Tracing() {
			c.settings.Tracef("ffx round %d: A=%s B=%s", i, subtle.FormatNumerals(A), subtle.FormatNumerals(B))
		}
		c.settings.Progress(i+1, r)
	}

	return subtle.ConcatenateNumerals(A, B), nil
}

func (c *Cipher) decryptTwo(key, tweak []byte, y []int) ([]int, error) {
	p := c.params
	n := len(y)
	l := p.Split(n)
	r := p.Rounds(n)

	// After an odd number of rounds the halves have traded lengths.
	if r%2 == 1 {
		l = n - l
	}
	A := subtle.ConcatenateNumerals(y[:l], nil)
	B := subtle.ConcatenateNumerals(y[l:], nil)

	for i := r - 1; i >= 0; i-- {
		C := B
		B = A
		f, err := c.round(key, n, tweak, i, B, len(C))
		if err != nil {
			return nil, err
		}
		A, err = p.Arithmetic().Subtract(C, f, p.Radix())
		if err != nil {
			return nil, err
		}

		if c.settings.Tracing() {
			c.settings.Tracef("ffx round %d: A=%s B=%s", i, subtle.FormatNumerals(A), subtle.FormatNumerals(B))
		}
		c.settings.Progress(r-i, r)
	}

	return subtle.ConcatenateNumerals(A, B), nil
}

func (c *Cipher) encryptOne(key, tweak []byte, x []int) ([]int, error) {
	p := c.params
	n := len(x)
	l := p.Split(n)
	r := p.Rounds(n)

	X := subtle.ConcatenateNumerals(x, nil)
	for i := 0; i < r; i++ {
		A, B := X[:l], X[l:]
		y, err := c.round(key, n, tweak, i, B, l)
		if err != nil {
			return nil, err
		}
		C, err := p.Arithmetic().Add(A, y, p.Radix())
		if err != nil {
			return nil, err
		}
		X = subtle.ConcatenateNumerals(B, C)

		if c.settings.Tracing() {
			c.settings.Tracef("ffx round %d: X=%s", i, subtle.FormatNumerals(X))
		}
		c.settings.Progress(i+1, r)
	}
	return X, nil
}

func (c *Cipher) decryptOne(key, tweak []byte, y []int) ([]int, error) {
	p := c.params
	n := len(y)
	l := p.Split(n)
	r := p.Rounds(n)

	Y := subtle.ConcatenateNumerals(y, nil)
	for i := r - 1; i >= 0; i-- {
		B, C := Y[:n-l], Y[n-l:]
		f, err := c.round(key, n, tweak, i, B, l)
		if err != nil {
			return nil, err
		}
		A, err := p.Arithmetic().Subtract(C, f, p.Radix())
		if err != nil {
			return nil, err
		}
		Y = subtle.ConcatenateNumerals(A, B)

		if c.settings.Tracing() {
			c.settings.Tracef("ffx round %d: Y=%s", i, subtle.FormatNumerals(Y))
		}
		c.settings.Progress(r-i, r)
	}
	return Y, nil
}

// round evaluates F and checks that its output has length want.
func (c *Cipher) round(key []byte, n int, tweak []byte, i int, b []int, want int) ([]int, error) {
	y, err := c.params.RoundFunction().F(key, n, tweak, i, b)
	if err != nil {
		return nil, fmt.Errorf("round %d: %w", i, err)
	}
	if len(y) != want {
		return nil, fmt.Errorf("%w: round %d produced %d numerals, want %d", subtle.ErrLength, i, len(y), want)
	}
	return y, nil
}

var _ NumeralCipher = (*Cipher)(nil)
