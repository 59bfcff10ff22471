package ff2

import (
	"fmt"
	"math/big"

	"github.com/vdparikh/fpe/v2/ffx"
	"github.com/vdparikh/fpe/v2/subtle"
)

const numRounds = 10

// Parameters returns the FFX parameter set of FF2 for messages in base radix
// and tweaks whose numerals are in base tweakRadix.
func Parameters(radix, tweakRadix int) (*ffx.Parameters, error) {
	if radix < subtle.MinRadixFF2 || radix > subtle.MaxRadixFF2 {
		return nil, fmt.Errorf("%w: FF2 radix %d (want %d..%d)", subtle.ErrRadix, radix, subtle.MinRadixFF2, subtle.MaxRadixFF2)
	}
	if tweakRadix < subtle.MinRadixFF2 || tweakRadix > subtle.MaxRadixFF2 {
		return nil, fmt.Errorf("%w: FF2 tweak radix %d (want %d..%d)", subtle.ErrRadix, tweakRadix, subtle.MinRadixFF2, subtle.MaxRadixFF2)
	}
	minLen, maxLen, err := lengthBounds(radix)
	if err != nil {
		return nil, err
	}
	maxTLen, err := maxTweakLength(tweakRadix)
	if err != nil {
		return nil, err
	}
	return ffx.NewParameters(ffx.Config{
		Radix:      radix,
		MinLen:     minLen,
		MaxLen:     maxLen,
		MinTLen:    0,
		MaxTLen:    maxTLen,
		Arithmetic: ffx.Blockwise,
		Method:     ffx.MethodTwo,
		Split:      ffx.Split(false),
		Rounds:     ffx.FixedRounds(numRounds),
		F:          roundFunction{radix: radix, tweakRadix: tweakRadix},
	})
}

// lengthBounds keeps NUM_radix of either half within the 15 bytes of Q.
func lengthBounds(radix int) (int, int, error) {
	lg, err := subtle.Log2(float64(radix))
	if err != nil {
		return 0, 0, err
	}
	var maxLen int
	if radix&(radix-1) == 0 {
		maxLen = 2 * subtle.Floor(120/lg)
		if maxLen < 2 {
			maxLen = 2
		}
	} else {
		maxLen = 2 * subtle.Floor(98/lg)
	}
	minLen := subtle.MinLength(radix)
	return minLen, maxLen, nil
}

// maxTweakLength keeps NUM_tweakRadix(T) within the 13 bytes of P.
func maxTweakLength(tweakRadix int) (int, error) {
	lg, err := subtle.Log2(float64(tweakRadix))
	if err != nil {
		return 0, err
	}
	return subtle.Floor(104/lg) - 1, nil
}

type roundFunction struct {
	radix      int
	tweakRadix int
}

func (roundFunction) ValidKey(key []byte) error {
	return subtle.ValidKey(key)
}

// F recomputes the subkey J on every call; the direct Cipher derives it once.
func (f roundFunction) F(key []byte, n int, tweak []byte, i int, b []int) ([]int, error) {
	j, err := subkey(key, f.radix, f.tweakRadix, n, tweak, ffx.Settings{})
	if err != nil {
		return nil, err
	}
	y, err := feistelFunction(j, f.radix, i, b, ffx.Settings{})
	if err != nil {
		return nil, err
	}
	m := outputLength(n, i)
	return subtle.StrMRadix(new(big.Int).Mod(y, subtle.Pow(f.radix, m)), f.radix, m)
}

func outputLength(n, i int) int {
	u := n / 2
	if i%2 == 0 {
		return u
	}
	return n - u
}

// subkey derives J = CIPH_K(P) with P = [radix]^1 || [t]^1 || [n]^1 ||
// [NUM_tweakRadix(T)]^13. An empty tweak gives t = 0 and thirteen zero
// bytes. A radix of 256 is encoded as 0.
func subkey(key []byte, radix, tweakRadix, n int, T []byte, s ffx.Settings) (*subtle.Ciphers, error) {
	digits := make([]int, len(T))
	for k, d := range T {
		digits[k] = int(d)
	}
	numT, err := subtle.NumRadix(digits, tweakRadix)
	if err != nil {
		return nil, fmt.Errorf("FF2 tweak: %w", err)
	}
	tBytes, err := subtle.ByteString(numT, 13)
	if err != nil {
		return nil, err
	}
	nByte, err := subtle.ByteStringInt(n, 1)
	if err != nil {
		return nil, err
	}
	tLen, err := subtle.ByteStringInt(len(T), 1)
	if err != nil {
		return nil, err
	}

	P := []byte{byte(radix % 256)}
	P = append(P, tLen...)
	P = append(P, nByte...)
	P = append(P, tBytes...)

	J, err := subtle.Ciph(key, P)
	if err != nil {
		return nil, err
	}
	if s.Tracing() {
		s.Tracef("  P is %s", subtle.FormatBytes(P))
		s.Tracef("  J is %s", subtle.FormatBytes(J))
	}
	return subtle.NewCiphers(J)
}

// feistelFunction returns y = NUM(CIPH_J([i]^1 || [NUM_radix(B)]^15)).
func feistelFunction(J *subtle.Ciphers, radix, i int, B []int, s ffx.Settings) (*big.Int, error) {
	numB, err := subtle.NumRadix(B, radix)
	if err != nil {
		return nil, err
	}
	bBytes, err := subtle.ByteString(numB, 15)
	if err != nil {
		return nil, err
	}
	Q := append([]byte{byte(i)}, bBytes...)
	Y, err := J.CIPH(Q)
	if err != nil {
		return nil, err
	}
	if s.Tracing() {
		s.Tracef("Round #%d", i)
		s.Tracef("  Q is %s", subtle.FormatBytes(Q))
		s.Tracef("  Y is %s", subtle.FormatBytes(Y))
	}
	return subtle.Num(Y)
}
