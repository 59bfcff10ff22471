package ff3

import (
	"fmt"

	"github.com/vdparikh/fpe/v2/ffx"
	"github.com/vdparikh/fpe/v2/subtle"
)

const (
	numRounds    = 8
	tweakLen     = 8
	halfTweakLen = tweakLen / 2
)

// Parameters returns the FFX parameter set of FF3 for radix.
func Parameters(radix int) (*ffx.Parameters, error) {
	return parameters(radix, ffx.Settings{})
}

func parameters(radix int, settings ffx.Settings) (*ffx.Parameters, error) {
	if radix < subtle.MinRadix || radix > subtle.MaxRadix {
		return nil, fmt.Errorf("%w: FF3 radix %d (want %d..%d)", subtle.ErrRadix, radix, subtle.MinRadix, subtle.MaxRadix)
	}

	// radix^minLen >= 100 and maxLen <= 2*floor(log_radix(2^96)), so that
	// NUM_radix(REV(B)) always fits the 12 bytes of P.
	minLen := subtle.MinLength(radix)
	lg, err := subtle.Log2(float64(radix))
	if err != nil {
		return nil, err
	}
	maxLen := 2 * subtle.Floor(96/lg)
	if maxLen < minLen {
		return nil, fmt.Errorf("%w: FF3 radix %d leaves no valid message length", subtle.ErrRadix, radix)
	}

	return ffx.NewParameters(ffx.Config{
		Radix:      radix,
		MinLen:     minLen,
		MaxLen:     maxLen,
		MinTLen:    tweakLen,
		MaxTLen:    tweakLen,
		Arithmetic: ffx.ReversedBlockwise,
		Method:     ffx.MethodTwo,
		Split:      ffx.Split(true),
		Rounds:     ffx.FixedRounds(numRounds),
		F:          roundFunction{radix: radix, settings: settings},
	})
}

type roundFunction struct {
	radix    int
	settings ffx.Settings
}

func (roundFunction) ValidKey(key []byte) error {
	return subtle.ValidKey(key)
}

// F returns REV(STR^m_radix(y mod radix^m)). The reversal pairs with
// ReversedBlockwise so that y is added to NUM_radix(REV(A)), as in NIST SP
// 800-38G Algorithm 9 step 4.v.
func (f roundFunction) F(key []byte, n int, tweak []byte, i int, b []int) ([]int, error) {
	if len(tweak) != tweakLen {
		return nil, fmt.Errorf("%w: FF3 tweak is %d bytes (want %d)", subtle.ErrTweakLength, len(tweak), tweakLen)
	}

	// Step 1: u = ceil(n/2), v = n - u
	u := n - n/2
	v := n - u

	// Step 4.i: m = u and W = T_R on even rounds, m = v and W = T_L on odd
	m, W := u, tweak[halfTweakLen:]
	if i%2 == 1 {
		m, W = v, tweak[:halfTweakLen]
	}

	// Step 4.ii: P = W ⊕ [i]^4 || [NUM_radix(REV(B))]^12
	iBytes, err := subtle.ByteStringInt(i, halfTweakLen)
	if err != nil {
		return nil, err
	}
	head, err := subtle.Xor(W, iBytes)
	if err != nil {
		return nil, err
	}
	numB, err := subtle.NumRadix(subtle.Rev(b), f.radix)
	if err != nil {
		return nil, err
	}
	bBytes, err := subtle.ByteString(numB, 12)
	if err != nil {
		return nil, err
	}
	P := subtle.Concatenate(head, bBytes)

	// Step 4.iii: S = REVB(CIPH_REVB(K)(REVB(P)))
	revS, err := subtle.Ciph(subtle.RevB(key), subtle.RevB(P))
	if err != nil {
		return nil, err
	}
	S := subtle.RevB(revS)

	// Step 4.iv: y = NUM(S)
	y, err := subtle.Num(S)
	if err != nil {
		return nil, err
	}
	y.Mod(y, subtle.Pow(f.radix, m))

	if f.settings.Tracing() {
		f.settings.Tracef("Round #%d", i)
		f.settings.Tracef("  P is %s", subtle.FormatBytes(P))
		f.settings.Tracef("  S is %s", subtle.FormatBytes(S))
		f.settings.Tracef("  y is %s", y)
	}

	C, err := subtle.StrMRadix(y, f.radix, m)
	if err != nil {
		return nil, err
	}
	return subtle.Rev(C), nil
}
