// Package ffx implements the generic FFX Feistel engine that FF1, FF2 and FF3
// of NIST SP 800-38G instantiate.
//
// A Parameters value fixes the radix, the length and tweak-length bounds,
// the modular arithmetic, the Feistel method, the split and round-count
// functions and the round function F. A Cipher drives encryption and
// decryption over any valid Parameters.
package ffx

import (
	"fmt"

	"github.com/vdparikh/fpe/v2/subtle"
)

// Method selects the Feistel network variant.
type Method int

const (
	// MethodOne re-partitions the whole string every round (unbalanced
	// Feistel with a fixed split).
	MethodOne Method = 1
	// MethodTwo swaps the two halves every round (alternating Feistel).
	MethodTwo Method = 2
)

func (m Method) String() string {
	switch m {
	case MethodOne:
		return "ONE"
	case MethodTwo:
		return "TWO"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// SplitFunction maps the message length n to the length of the left part.
type SplitFunction func(n int) int

// RoundCounter maps the message length n to the number of Feistel rounds.
type RoundCounter func(n int) int

// RoundFunction is the pseudorandom round function F of a Feistel network.
type RoundFunction interface {
	// ValidKey reports whether key is acceptable to F.
	ValidKey(key []byte) error
	// F derives a numeral string from round i's input b. Its length must be
	// that of the part it is combined with.
	F(key []byte, n int, tweak []byte, i int, b []int) ([]int, error)
}

// Split returns a SplitFunction that gives the left part floor(n/2)
// numerals, or ceil(n/2) when ceil is set.
func Split(ceil bool) SplitFunction {
	if ceil {
		return func(n int) int { return n - n/2 }
	}
	return func(n int) int { return n / 2 }
}

// FixedRounds returns a RoundCounter that ignores n.
func FixedRounds(r int) RoundCounter {
	return func(int) int { return r }
}

// Config describes a parameter set before validation.
type Config struct {
	Radix   int
	MinLen  int
	MaxLen  int
	MinTLen int
	MaxTLen int

	Arithmetic ArithmeticFunction
	Method     Method
	Split      SplitFunction
	Rounds     RoundCounter
	F          RoundFunction
}

// Parameters is a validated, immutable FFX parameter set. It is safe to
// share between goroutines.
type Parameters struct {
	cfg Config
}

// NewParameters validates cfg. Round counts are checked against the FFX
// floor for every admissible message length, so an unsafe parameter set
// fails here rather than on first use.
func NewParameters(cfg Config) (*Parameters, error) {
	if cfg.Radix < subtle.MinRadix || cfg.Radix > subtle.MaxRadix {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", subtle.ErrRadix, cfg.Radix, subtle.MinRadix, subtle.MaxRadix)
	}
	if cfg.MinLen < 2 || cfg.MinLen > cfg.MaxLen || cfg.MaxLen > subtle.MaxLen {
		return nil, fmt.Errorf("%w: message length bounds [%d, %d]", subtle.ErrLength, cfg.MinLen, cfg.MaxLen)
	}
	if cfg.MinTLen < 0 || cfg.MinTLen > cfg.MaxTLen || cfg.MaxTLen > subtle.MaxLen {
		return nil, fmt.Errorf("%w: tweak length bounds [%d, %d]", subtle.ErrTweakLength, cfg.MinTLen, cfg.MaxTLen)
	}
	if cfg.Arithmetic == nil || cfg.Split == nil || cfg.Rounds == nil || cfg.F == nil {
		return nil, fmt.Errorf("%w: parameter set needs arithmetic, split, rounds and F", subtle.ErrNilArgument)
	}
	if cfg.Method != MethodOne && cfg.Method != MethodTwo {
		return nil, fmt.Errorf("ffx: unknown Feistel method %v", cfg.Method)
	}

	for n := cfg.MinLen; n <= cfg.MaxLen; n++ {
		l := cfg.Split(n)
		if l < 1 || l >= n {
			return nil, fmt.Errorf("%w: split(%d) = %d", subtle.ErrLength, n, l)
		}
		if r, floor := cfg.Rounds(n), minRounds(cfg.Method, n, l); r < floor {
			return nil, fmt.Errorf("%w: rounds(%d) = %d, need at least %d", subtle.ErrRounds, n, r, floor)
		}
	}

	return &Parameters{cfg: cfg}, nil
}

// minRounds is the FFX safety floor: 8 rounds for balanced splits or the
// alternating method, otherwise ceil(4n/split(n)).
func minRounds(method Method, n, l int) int {
	if method == MethodTwo || 2*l == n {
		return 8
	}
	return (4*n + l - 1) / l
}

// Radix returns the message radix.
func (p *Parameters) Radix() int { return p.cfg.Radix }

// MinLen returns the minimum message length.
func (p *Parameters) MinLen() int { return p.cfg.MinLen }

// MaxLen returns the maximum message length.
func (p *Parameters) MaxLen() int { return p.cfg.MaxLen }

// MinTLen returns the minimum tweak length.
func (p *Parameters) MinTLen() int { return p.cfg.MinTLen }

// MaxTLen returns the maximum tweak length.
func (p *Parameters) MaxTLen() int { return p.cfg.MaxTLen }

// Method returns the Feistel method.
func (p *Parameters) Method() Method { return p.cfg.Method }

// Split returns split(n).
func (p *Parameters) Split(n int) int { return p.cfg.Split(n) }

// Rounds returns rounds(n).
func (p *Parameters) Rounds(n int) int { return p.cfg.Rounds(n) }

// Arithmetic returns the arithmetic function.
func (p *Parameters) Arithmetic() ArithmeticFunction { return p.cfg.Arithmetic }

// RoundFunction returns F.
func (p *Parameters) RoundFunction() RoundFunction { return p.cfg.F }

// Validate checks the preconditions of one encryption or decryption of x
// under key and tweak. No round is run when it fails.
func (p *Parameters) Validate(key, tweak []byte, x []int) error {
	if x == nil {
		return fmt.Errorf("%w: input numeral string", subtle.ErrNilArgument)
	}
	if err := p.cfg.F.ValidKey(key); err != nil {
		return err
	}
	if t := len(tweak); t < p.cfg.MinTLen || t > p.cfg.MaxTLen {
		return fmt.Errorf("%w: %d bytes (want %d..%d)", subtle.ErrTweakLength, t, p.cfg.MinTLen, p.cfg.MaxTLen)
	}
	if n := len(x); n < p.cfg.MinLen || n > p.cfg.MaxLen {
		return fmt.Errorf("%w: message is %d numerals (want %d..%d)", subtle.ErrLength, n, p.cfg.MinLen, p.cfg.MaxLen)
	}
	if err := subtle.CheckNumerals(x, p.cfg.Radix); err != nil {
		return err
	}
	return subtle.CheckDomain(p.cfg.Radix, len(x))
}
