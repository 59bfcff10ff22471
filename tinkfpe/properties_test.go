package tinkfpe

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/tink/go/keyset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdparikh/fpe/v2"
)

func newPrimitive(t testing.TB, tweak []byte) fpe.AlphabetFPE {
	t.Helper()
	require.NoError(t, Register())
	handle, err := keyset.NewHandle(KeyTemplate())
	require.NoError(t, err)
	primitive, err := New(handle, tweak)
	require.NoError(t, err)
	return primitive
}

// TestBijectivity enciphers every 3-digit string and checks that the result
// is a permutation of the domain.
func TestBijectivity(t *testing.T) {
	primitive := newPrimitive(t, []byte("bijectivity-test"))

	seen := make(map[string]string, 1000)
	for i := 0; i < 1000; i++ {
		plaintext := fmt.Sprintf("%03d", i)
		tokenized, err := primitive.Tokenize(plaintext)
		require.NoError(t, err)
		require.Len(t, tokenized, 3)

		if existing, ok := seen[tokenized]; ok {
			t.Fatalf("collision: %s and %s both produce %s", existing, plaintext, tokenized)
		}
		seen[tokenized] = plaintext
	}
	assert.Len(t, seen, 1000)
}

func TestCollisionResistance(t *testing.T) {
	primitive := newPrimitive(t, []byte("test-tweak"))
	rng := rand.New(rand.NewSource(1))

	seen := make(map[string]string)
	for len(seen) < 2000 {
		plaintext := randomDigits(rng, 12)
		tokenized, err := primitive.Tokenize(plaintext)
		require.NoError(t, err)
		if existing, ok := seen[tokenized]; ok && existing != plaintext {
			t.Fatalf("collision: %s and %s both produce %s", existing, plaintext, tokenized)
		}
		seen[tokenized] = plaintext
	}
}

func TestKeySensitivity(t *testing.T) {
	a := newPrimitive(t, []byte("tweak"))
	b := newPrimitive(t, []byte("tweak"))

	ta, err := a.Tokenize("1234567890123456")
	require.NoError(t, err)
	tb, err := b.Tokenize("1234567890123456")
	require.NoError(t, err)
	assert.NotEqual(t, ta, tb)
}

func TestTweakSensitivity(t *testing.T) {
	require.NoError(t, Register())
	handle, err := keyset.NewHandle(KeyTemplate())
	require.NoError(t, err)

	tokens := make(map[string]bool)
	for _, tweak := range []string{"", "a", "b", "tenant-1|ssn", "tenant-2|ssn"} {
		primitive, err := New(handle, []byte(tweak))
		require.NoError(t, err)
		tokenized, err := primitive.Tokenize("1234567890123456")
		require.NoError(t, err)
		tokens[tokenized] = true
	}
	assert.Len(t, tokens, 5)
}

// TestDistribution checks that every output position uses every digit over a
// few thousand inputs.
func TestDistribution(t *testing.T) {
	primitive := newPrimitive(t, []byte("distribution"))
	rng := rand.New(rand.NewSource(2))

	const length = 8
	var counts [length][10]int
	for i := 0; i < 5000; i++ {
		tokenized, err := primitive.Tokenize(randomDigits(rng, length))
		require.NoError(t, err)
		for pos, c := range tokenized {
			counts[pos][c-'0']++
		}
	}
	for pos := range counts {
		for digit, n := range counts[pos] {
			// 500 expected; this bound is far outside binomial noise.
			assert.Greater(t, n, 350, "position %d digit %d", pos, digit)
		}
	}
}

func TestDetokenizeWithAlphabet(t *testing.T) {
	primitive := newPrimitive(t, []byte("alphabet"))

	tokenized, err := primitive.TokenizeWithAlphabet("deadbeef-0042", "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, byte('-'), tokenized[8])

	plaintext, err := primitive.DetokenizeWithAlphabet(tokenized, "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef-0042", plaintext)
}

func randomDigits(rng *rand.Rand, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = byte('0' + rng.Intn(10))
	}
	return string(b)
}
