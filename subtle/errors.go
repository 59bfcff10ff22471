package subtle

import "errors"

// Errors returned by the primitives and the ciphers built on them. Callers
// should test for them with errors.Is; the returned errors carry the
// offending values as context.
var (
	// ErrNilArgument is returned when a required key, tweak or input is nil.
	ErrNilArgument = errors.New("fpe: missing argument")

	// ErrKeySize is returned for keys that are not 16, 24 or 32 bytes long.
	ErrKeySize = errors.New("fpe: key must be 128, 192 or 256 bits")

	// ErrLength is returned when a byte string or numeral string is outside
	// the permitted length range.
	ErrLength = errors.New("fpe: length out of range")

	// ErrTweakLength is returned when a tweak is outside [minTlen, maxTlen].
	ErrTweakLength = errors.New("fpe: tweak length out of range")

	// ErrRadix is returned when a radix is outside the supported range.
	ErrRadix = errors.New("fpe: radix out of range")

	// ErrDomain is returned when a numeral is not in [0, radix), or a value
	// does not fit the requested encoding.
	ErrDomain = errors.New("fpe: value outside domain")

	// ErrEntropy is returned when radix^n is below MinDomain.
	ErrEntropy = errors.New("fpe: domain too small")

	// ErrRounds is returned when a parameter set uses fewer Feistel rounds
	// than the FFX safety floor.
	ErrRounds = errors.New("fpe: too few rounds")
)
