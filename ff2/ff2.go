// Package ff2 implements FF2, the VAES3-based format-preserving encryption
// mode from the draft of NIST SP 800-38G.
//
// FF2 differs from FF1 in two ways: the tweak is itself a numeral string in a
// separate tweak radix, and each message derives a one-block subkey J from
// the key, the tweak and the message length, which then keys every round.
// Tweak numerals are passed one per byte.
package ff2

import (
	"fmt"
	"math/big"

	"github.com/vdparikh/fpe/v2/ffx"
	"github.com/vdparikh/fpe/v2/subtle"
)

// Cipher is an FF2 instance for one message radix and tweak radix. It is
// safe for concurrent use.
type Cipher struct {
	radix      int
	tweakRadix int
	params     *ffx.Parameters
	settings   ffx.Settings
}

// New creates an FF2 cipher.
func New(radix, tweakRadix int, opts ...ffx.Option) (*Cipher, error) {
	params, err := Parameters(radix, tweakRadix)
	if err != nil {
		return nil, err
	}
	return &Cipher{
		radix:      radix,
		tweakRadix: tweakRadix,
		params:     params,
		settings:   ffx.NewSettings(opts...),
	}, nil
}

// Parameters returns the FFX parameter set equivalent to c.
func (f *Cipher) Parameters() *ffx.Parameters {
	return f.params
}

// Encrypt enciphers X under key K and tweak T.
func (f *Cipher) Encrypt(K, T []byte, X []int) ([]int, error) {
	return f.run(K, T, X, true)
}

// Decrypt inverts Encrypt.
func (f *Cipher) Decrypt(K, T []byte, X []int) ([]int, error) {
	return f.run(K, T, X, false)
}

func (f *Cipher) run(K, T []byte, X []int, encrypt bool) ([]int, error) {
	if err := f.params.Validate(K, T, X); err != nil {
		return nil, err
	}
	radix := f.radix
	n := len(X)
	u := n / 2
	v := n - u

	if f.settings.Tracing() {
		f.settings.Tracef("FF2 radix=%d tweakRadix=%d n=%d t=%d", radix, f.tweakRadix, n, len(T))
	}

	J, err := subkey(K, radix, f.tweakRadix, n, T, f.settings)
	if err != nil {
		return nil, err
	}

	A := subtle.ConcatenateNumerals(X[:u], nil)
	B := subtle.ConcatenateNumerals(X[u:], nil)
	numA, err := subtle.NumRadix(A, radix)
	if err != nil {
		return nil, err
	}
	numB, err := subtle.NumRadix(B, radix)
	if err != nil {
		return nil, err
	}
	modU := subtle.Pow(radix, u)
	modV := subtle.Pow(radix, v)

	for step := 0; step < numRounds; step++ {
		i := step
		if !encrypt {
			i = numRounds - 1 - step
		}
		m, mod := u, modU
		if i%2 == 1 {
			m, mod = v, modV
		}

		c := new(big.Int)
		if encrypt {
			y, err := feistelFunction(J, radix, i, B, f.settings)
			if err != nil {
				return nil, fmt.Errorf("FF2 round %d: %w", i, err)
			}
			c.Add(numA, y)
		} else {
			y, err := feistelFunction(J, radix, i, A, f.settings)
			if err != nil {
				return nil, fmt.Errorf("FF2 round %d: %w", i, err)
			}
			c.Sub(numB, y)
		}
		c.Mod(c, mod)

		C, err := subtle.StrMRadix(c, radix, m)
		if err != nil {
			return nil, err
		}
		if encrypt {
			A, numA = B, numB
			B, numB = C, c
		} else {
			B, numB = A, numA
			A, numA = C, c
		}

		if f.settings.Tracing() {
			f.settings.Tracef("  C is %s", subtle.FormatNumerals(C))
		}
		f.settings.Progress(step+1, numRounds)
	}

	return subtle.ConcatenateNumerals(A, B), nil
}

var _ ffx.NumeralCipher = (*Cipher)(nil)
