// Package ff1 implements the FF1 format-preserving encryption mode of NIST
// SP 800-38G over AES.
//
// FF1 enciphers numeral strings of 2 to 4096 numerals in any radix from 2 to
// 65536 with a tweak of up to maxTlen bytes, using a 10-round alternating
// Feistel network. The same transformation is available through the generic
// ffx engine with the parameter set returned by Parameters.
//
// Example usage:
//
//	c, err := ff1.New(10, 8)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ct, err := c.Encrypt(key, tweak, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
package ff1

import (
	"fmt"
	"math/big"

	"github.com/vdparikh/fpe/v2/ffx"
	"github.com/vdparikh/fpe/v2/subtle"
)

// Cipher is an FF1 instance for one radix and maximum tweak length.
//
// Thread safety: a Cipher holds no per-call state and is safe for concurrent
// use by multiple goroutines, provided its Observer is.
type Cipher struct {
	radix    int
	params   *ffx.Parameters
	settings ffx.Settings
}

// New creates an FF1 cipher for numeral strings in base radix and tweaks of
// at most maxTlen bytes.
func New(radix, maxTlen int, opts ...ffx.Option) (*Cipher, error) {
	params, err := Parameters(radix, maxTlen)
	if err != nil {
		return nil, err
	}
	return &Cipher{
		radix:    radix,
		params:   params,
		settings: ffx.NewSettings(opts...),
	}, nil
}

// Parameters returns the FFX parameter set equivalent to c.
func (f *Cipher) Parameters() *ffx.Parameters {
	return f.params
}

// Radix returns the radix of c.
func (f *Cipher) Radix() int {
	return f.radix
}

// Encrypt performs FF1 encryption (NIST SP 800-38G Algorithm 7) of the
// numeral string X under key K and tweak T.
func (f *Cipher) Encrypt(K, T []byte, X []int) ([]int, error) {
	return f.run(K, T, X, true)
}

// Decrypt performs FF1 decryption (NIST SP 800-38G Algorithm 8).
func (f *Cipher) Decrypt(K, T []byte, X []int) ([]int, error) {
	return f.run(K, T, X, false)
}

func (f *Cipher) run(K, T []byte, X []int, encrypt bool) ([]int, error) {
	if err := f.params.Validate(K, T, X); err != nil {
		return nil, err
	}
	c, err := subtle.NewCiphers(K)
	if err != nil {
		return nil, err
	}

	radix := f.radix
	n := len(X)

	// Steps 3-5 do not depend on the round.
	st, err := newRoundState(c, radix, n, T)
	if err != nil {
		return nil, err
	}

	// Step 1: u = floor(n/2), v = n - u
	u := n / 2
	v := n - u

	// Step 2: A = X[1..u], B = X[u+1..n]
	numA, err := subtle.NumRadix(X[:u], radix)
	if err != nil {
		return nil, err
	}
	numB, err := subtle.NumRadix(X[u:], radix)
	if err != nil {
		return nil, err
	}
	A := subtle.ConcatenateNumerals(X[:u], nil)
	B := subtle.ConcatenateNumerals(X[u:], nil)

	modU := subtle.Pow(radix, u)
	modV := subtle.Pow(radix, v)

	if f.settings.Tracing() {
		f.settings.Tracef("FF1 %s radix=%d n=%d t=%d", direction(encrypt), radix, n, len(T))
		f.settings.Tracef("  P is %s", subtle.FormatBytes(st.P))
		f.settings.Tracef("  A is %s", subtle.FormatNumerals(A))
		f.settings.Tracef("  B is %s", subtle.FormatNumerals(B))
	}

	// Step 6: Feistel rounds
	for step := 0; step < numRounds; step++ {
		i := step
		if !encrypt {
			i = numRounds - 1 - step
		}

		// Step 6.v: m = u if i is even, else v
		m, mod := u, modU
		if i%2 == 1 {
			m, mod = v, modV
		}

		var y *big.Int
		c1 := new(big.Int)
		if encrypt {
			// Steps 6.i-6.iv on B, then c = (NUM_radix(A) + y) mod radix^m
			y, err = st.feistel(i, B, f.settings)
			if err != nil {
				return nil, fmt.Errorf("FF1 round %d: %w", i, err)
			}
			c1.Add(numA, y)
		} else {
			// Algorithm 8 runs F on A and subtracts from B
			y, err = st.feistel(i, A, f.settings)
			if err != nil {
				return nil, fmt.Errorf("FF1 round %d: %w", i, err)
			}
			c1.Sub(numB, y)
		}
		c1.Mod(c1, mod)

		// Step 6.vii: C = STR^m_radix(c)
		C, err := subtle.StrMRadix(c1, radix, m)
		if err != nil {
			return nil, err
		}

		// Steps 6.viii-6.ix
		if encrypt {
			A, numA = B, numB
			B, numB = C, c1
		} else {
			B, numB = A, numA
			A, numA = C, c1
		}

		if f.settings.Tracing() {
			f.settings.Tracef("  c is %s", c1)
			f.settings.Tracef("  C is %s", subtle.FormatNumerals(C))
		}
		f.settings.Progress(step+1, numRounds)
	}

	// Step 7: return A || B
	return subtle.ConcatenateNumerals(A, B), nil
}

func direction(encrypt bool) string {
	if encrypt {
		return "encrypt"
	}
	return "decrypt"
}

var _ ffx.NumeralCipher = (*Cipher)(nil)
