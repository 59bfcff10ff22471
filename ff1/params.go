package ff1

import (
	"fmt"
	"math/big"

	"github.com/vdparikh/fpe/v2/ffx"
	"github.com/vdparikh/fpe/v2/subtle"
)

const (
	numRounds = 10
	minLen    = 2
)

// Parameters returns the FFX parameter set of FF1 for radix, accepting
// tweaks of up to maxTlen bytes.
func Parameters(radix, maxTlen int) (*ffx.Parameters, error) {
	if radix < subtle.MinRadix || radix > subtle.MaxRadix {
		return nil, fmt.Errorf("%w: FF1 radix %d (want %d..%d)", subtle.ErrRadix, radix, subtle.MinRadix, subtle.MaxRadix)
	}
	if maxTlen < 0 || maxTlen > subtle.MaxLen {
		return nil, fmt.Errorf("%w: FF1 maxTlen %d (want 0..%d)", subtle.ErrTweakLength, maxTlen, subtle.MaxLen)
	}
	maxLen, err := maxLength(radix, maxTlen)
	if err != nil {
		return nil, err
	}
	return ffx.NewParameters(ffx.Config{
		Radix:      radix,
		MinLen:     minLen,
		MaxLen:     maxLen,
		MinTLen:    0,
		MaxTLen:    maxTlen,
		Arithmetic: ffx.Blockwise,
		Method:     ffx.MethodTwo,
		Split:      ffx.Split(false),
		Rounds:     ffx.FixedRounds(numRounds),
		F:          roundFunction{radix: radix},
	})
}

// maxLength returns the largest n for which P || Q stays within
// subtle.MaxLen bytes when the tweak is maxTlen bytes long.
func maxLength(radix, maxTlen int) (int, error) {
	lg, err := subtle.Log2(float64(radix))
	if err != nil {
		return 0, err
	}
	for n := subtle.MaxLen; n >= minLen; n-- {
		if prfInputLen(maxTlen, numBytes(lg, n-n/2)) <= subtle.MaxLen {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: FF1 maxTlen %d leaves no room for a message", subtle.ErrTweakLength, maxTlen)
}

// numBytes is b of Algorithm 7 step 3: ceil(ceil(v * log2(radix)) / 8).
func numBytes(lg float64, v int) int {
	return subtle.Ceiling(float64(subtle.Ceiling(float64(v)*lg)) / 8)
}

// prfInputLen is len(P || Q) for a t-byte tweak and b-byte NUM_radix(B).
func prfInputLen(t, b int) int {
	q := t + 1 + b
	return subtle.BlockSize + (q+subtle.BlockSize-1)/subtle.BlockSize*subtle.BlockSize
}

// roundFunction is F of FF1 expressed for the generic engine.
type roundFunction struct {
	radix int
}

func (roundFunction) ValidKey(key []byte) error {
	return subtle.ValidKey(key)
}

func (f roundFunction) F(key []byte, n int, tweak []byte, i int, b []int) ([]int, error) {
	c, err := subtle.NewCiphers(key)
	if err != nil {
		return nil, err
	}
	st, err := newRoundState(c, f.radix, n, tweak)
	if err != nil {
		return nil, err
	}
	y, err := st.feistel(i, b, ffx.Settings{})
	if err != nil {
		return nil, err
	}
	m := outputLength(n, i)
	return subtle.StrMRadix(new(big.Int).Mod(y, subtle.Pow(f.radix, m)), f.radix, m)
}

// outputLength is m of Algorithm 7 step 6.v: u on even rounds, v on odd.
func outputLength(n, i int) int {
	u := n / 2
	if i%2 == 0 {
		return u
	}
	return n - u
}

// roundState holds what Algorithm 7 fixes before the rounds start: b, d,
// P and the CBC-MAC chaining value CIPH_K(P).
type roundState struct {
	c     *subtle.Ciphers
	radix int
	T     []byte
	b, d  int
	P     []byte
	macP  []byte
}

func newRoundState(c *subtle.Ciphers, radix, n int, T []byte) (*roundState, error) {
	u := n / 2
	v := n - u

	// Step 3: b = ceil(ceil(v * log2(radix)) / 8)
	lg, err := subtle.Log2(float64(radix))
	if err != nil {
		return nil, err
	}
	b := numBytes(lg, v)

	// Step 4: d = 4 * ceil(b/4) + 4
	d := 4*subtle.Ceiling(float64(b)/4) + 4

	// Step 5
	P, err := header(radix, u, n, len(T))
	if err != nil {
		return nil, err
	}
	macP, err := c.CIPH(P)
	if err != nil {
		return nil, err
	}
	return &roundState{c: c, radix: radix, T: T, b: b, d: d, P: P, macP: macP}, nil
}

// feistel computes y = NUM(S) for round i (Algorithm 7, steps 6.i to 6.iv)
// given the current B.
func (r *roundState) feistel(i int, B []int, s ffx.Settings) (*big.Int, error) {
	t := len(r.T)

	// Step 6.i: Q = T || [0]^((-t-b-1) mod 16) || [i]^1 || [NUM_radix(B)]^b
	pad, err := subtle.ModInt(-t-r.b-1, 16)
	if err != nil {
		return nil, err
	}
	numB, err := subtle.NumRadix(B, r.radix)
	if err != nil {
		return nil, err
	}
	bBytes, err := subtle.ByteString(numB, r.b)
	if err != nil {
		return nil, err
	}
	Q := make([]byte, 0, t+pad+1+r.b)
	Q = append(Q, r.T...)
	Q = append(Q, make([]byte, pad)...)
	Q = append(Q, byte(i))
	Q = append(Q, bBytes...)

	// Step 6.ii: R = PRF(P || Q). P is a single block, so the CBC-MAC
	// resumes from CIPH(P) by folding it into the first block of Q.
	in := append([]byte(nil), Q...)
	for k := 0; k < subtle.BlockSize; k++ {
		in[k] ^= r.macP[k]
	}
	R, err := r.c.PRF(in)
	if err != nil {
		return nil, err
	}

	// Step 6.iii: S = first d bytes of R || CIPH(R ⊕ [1]^16) || ... || CIPH(R ⊕ [ceil(d/16)-1]^16)
	S := append([]byte(nil), R...)
	for j := 1; j < subtle.Ceiling(float64(r.d)/16); j++ {
		jBytes, err := subtle.ByteStringInt(j, subtle.BlockSize)
		if err != nil {
			return nil, err
		}
		x, err := subtle.Xor(R, jBytes)
		if err != nil {
			return nil, err
		}
		block, err := r.c.CIPH(x)
		if err != nil {
			return nil, err
		}
		S = append(S, block...)
	}
	S = S[:r.d]

	// Step 6.iv: y = NUM(S)
	y, err := subtle.Num(S)
	if err != nil {
		return nil, err
	}

	if s.Tracing() {
		s.Tracef("Round #%d", i)
		s.Tracef("  B is %s", subtle.FormatNumerals(B))
		s.Tracef("  Q is %s", subtle.FormatBytes(Q))
		s.Tracef("  R is %s", subtle.FormatBytes(R))
		s.Tracef("  S is %s", subtle.FormatBytes(S))
		s.Tracef("  y is %s", y)
	}

	return y, nil
}

// header builds P = [1]^1 || [2]^1 || [1]^1 || [radix]^3 || [10]^1 ||
// [u mod 256]^1 || [n]^4 || [t]^4 (Algorithm 7, step 5).
func header(radix, u, n, t int) ([]byte, error) {
	P := []byte{1, 2, 1}
	r, err := subtle.ByteStringInt(radix, 3)
	if err != nil {
		return nil, err
	}
	P = append(P, r...)
	P = append(P, numRounds, byte(u%256))
	nBytes, err := subtle.ByteStringInt(n, 4)
	if err != nil {
		return nil, err
	}
	tBytes, err := subtle.ByteStringInt(t, 4)
	if err != nil {
		return nil, err
	}
	P = append(P, nBytes...)
	return append(P, tBytes...), nil
}
