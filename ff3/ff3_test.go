package ff3

import (
	"encoding/hex"
	"math/rand"
	"strings"
	"testing"

	capff3 "github.com/capitalone/fpe/ff3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdparikh/fpe/v2/ffx"
	"github.com/vdparikh/fpe/v2/subtle"
)

const alphabet36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func toNumerals(s string) []int {
	out := make([]int, len(s))
	for i, c := range s {
		out[i] = strings.IndexRune(alphabet36, c)
	}
	return out
}

func toString(x []int) string {
	var sb strings.Builder
	for _, d := range x {
		sb.WriteByte(alphabet36[d])
	}
	return sb.String()
}

func TestNISTVectors(t *testing.T) {
	const (
		key128 = "EF4359D8D580AA4F7F036D6F04FC6A94"
		key192 = "EF4359D8D580AA4F7F036D6F04FC6A942B7E151628AED2A6"
		key256 = "EF4359D8D580AA4F7F036D6F04FC6A942B7E151628AED2A6ABF7158809CF4F3C"
	)
	tests := []struct {
		name       string
		key        string
		radix      int
		tweak      string
		plaintext  string
		ciphertext string
	}{
		{"sample 1", key128, 10, "D8E7920AFA330A73", "890121234567890000", "750918814058654607"},
		{"sample 2", key128, 10, "9A768A92F60E12D8", "890121234567890000", "018989839189395384"},
		{"sample 3", key128, 10, "D8E7920AFA330A73", "89012123456789000000789000000", "48598367162252569629397416226"},
		{"sample 4", key128, 10, "0000000000000000", "89012123456789000000789000000", "34695224821734535122613701434"},
		{"sample 5", key128, 26, "9A768A92F60E12D8", "0123456789abcdefghi", "g2pk40i992fn20cjakb"},
		{"sample 6", key192, 10, "D8E7920AFA330A73", "890121234567890000", "646965393875028755"},
		{"sample 11", key256, 10, "D8E7920AFA330A73", "890121234567890000", "922011205562777495"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := mustDecodeHex(tt.key)
			tweak := mustDecodeHex(tt.tweak)

			c, err := New(tt.radix)
			require.NoError(t, err)

			ct, err := c.Encrypt(key, tweak, toNumerals(tt.plaintext))
			require.NoError(t, err)
			assert.Equal(t, tt.ciphertext, toString(ct))

			pt, err := c.Decrypt(key, tweak, ct)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, toString(pt))
		})
	}
}

func TestMatchesCapitalOne(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	key := make([]byte, 16)
	rng.Read(key)

	for _, radix := range []int{10, 16, 26, 36} {
		for _, n := range []int{6, 7, 12, 19} {
			tweak := make([]byte, tweakLen)
			rng.Read(tweak)
			x := make([]int, n)
			for i := range x {
				x[i] = rng.Intn(radix)
			}

			// capitalone reverses the key slice in place
			ref, err := capff3.NewCipher(radix, append([]byte(nil), key...), tweak)
			require.NoError(t, err)
			want, err := ref.Encrypt(toString(x))
			require.NoError(t, err)

			c, err := New(radix)
			require.NoError(t, err)
			got, err := c.Encrypt(key, tweak, x)
			require.NoError(t, err)
			assert.Equal(t, want, toString(got), "radix %d, n %d", radix, n)
		}
	}
}

func TestKeyNotMutated(t *testing.T) {
	key := mustDecodeHex("EF4359D8D580AA4F7F036D6F04FC6A94")
	orig := append([]byte(nil), key...)
	tweak := mustDecodeHex("D8E7920AFA330A73")

	c, err := New(10)
	require.NoError(t, err)
	x := toNumerals("890121234567890000")
	y, err := c.Encrypt(key, tweak, x)
	require.NoError(t, err)
	assert.Equal(t, orig, key)
	assert.Equal(t, "750918814058654607", toString(y))

	// A second call with the same slice must give the same answer.
	y2, err := c.Encrypt(key, tweak, x)
	require.NoError(t, err)
	assert.Equal(t, y, y2)
}

func TestParameters(t *testing.T) {
	tests := []struct {
		radix          int
		minLen, maxLen int
	}{
		{2, 7, 192},
		{10, 2, 56},
		{26, 2, 40},
		{65536, 2, 12},
	}
	for _, tt := range tests {
		p, err := Parameters(tt.radix)
		require.NoError(t, err)
		assert.Equal(t, tt.minLen, p.MinLen(), "radix %d", tt.radix)
		assert.Equal(t, tt.maxLen, p.MaxLen(), "radix %d", tt.radix)
		assert.Equal(t, 8, p.MinTLen())
		assert.Equal(t, 8, p.MaxTLen())
		assert.Equal(t, 8, p.Rounds(p.MaxLen()))
		assert.Equal(t, ffx.MethodTwo, p.Method())
		assert.Equal(t, 3, p.Split(5))
	}

	_, err := Parameters(1)
	assert.ErrorIs(t, err, subtle.ErrRadix)
	_, err = Parameters(65537)
	assert.ErrorIs(t, err, subtle.ErrRadix)
}

func TestRoundTripAtBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	key := mustDecodeHex("EF4359D8D580AA4F7F036D6F04FC6A94")
	tweak := mustDecodeHex("D8E7920AFA330A73")

	for _, radix := range []int{2, 10, 255, 65536} {
		c, err := New(radix)
		require.NoError(t, err)
		p := c.Parameters()
		for _, n := range []int{p.MinLen(), p.MinLen() + 1, p.MaxLen() - 1, p.MaxLen()} {
			x := make([]int, n)
			for i := range x {
				x[i] = rng.Intn(radix)
			}
			y, err := c.Encrypt(key, tweak, x)
			require.NoError(t, err)
			back, err := c.Decrypt(key, tweak, y)
			require.NoError(t, err)
			assert.Equal(t, x, back, "radix %d, n %d", radix, n)
		}
	}
}

func TestRejects(t *testing.T) {
	key := mustDecodeHex("EF4359D8D580AA4F7F036D6F04FC6A94")
	c, err := New(10)
	require.NoError(t, err)
	x := toNumerals("890121234567890000")

	_, err = c.Encrypt(key, make([]byte, 7), x)
	assert.ErrorIs(t, err, subtle.ErrTweakLength)
	_, err = c.Encrypt(key, make([]byte, 16), x)
	assert.ErrorIs(t, err, subtle.ErrTweakLength)
	_, err = c.Encrypt(key, make([]byte, 8), make([]int, 57))
	assert.ErrorIs(t, err, subtle.ErrLength)
	_, err = c.Encrypt(key[:5], make([]byte, 8), x)
	assert.ErrorIs(t, err, subtle.ErrKeySize)
}

func TestTrace(t *testing.T) {
	key := mustDecodeHex("EF4359D8D580AA4F7F036D6F04FC6A94")
	tweak := mustDecodeHex("D8E7920AFA330A73")

	var rounds int
	var last float64
	c, err := New(10, ffx.WithObserver(ffx.ObserverFuncs{
		Output: func(s string) {
			if strings.HasPrefix(s, "Round #") {
				rounds++
			}
		},
		Progress: func(f float64) { last = f },
	}))
	require.NoError(t, err)

	ct, err := c.Encrypt(key, tweak, toNumerals("890121234567890000"))
	require.NoError(t, err)
	assert.Equal(t, "750918814058654607", toString(ct))
	assert.Equal(t, numRounds, rounds)
	assert.Equal(t, 1.0, last)
}
