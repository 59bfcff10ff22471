package subtle

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestCIPHKnownAnswer(t *testing.T) {
	// FIPS-197 Appendix C.1
	key := mustDecodeHex("000102030405060708090a0b0c0d0e0f")
	pt := mustDecodeHex("00112233445566778899aabbccddeeff")
	got, err := Ciph(key, pt)
	require.NoError(t, err)
	assert.Equal(t, "69c4e0d86a7b0430d8cdb78070b4c55a", hex.EncodeToString(got))
}

func TestCIPHIsECB(t *testing.T) {
	key := mustDecodeHex("2B7E151628AED2A6ABF7158809CF4F3C")
	block := mustDecodeHex("00112233445566778899aabbccddeeff")
	got, err := Ciph(key, Concatenate(block, block))
	require.NoError(t, err)
	assert.Equal(t, got[:BlockSize], got[BlockSize:])
}

func TestPRFEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, keyLen := range []int{16, 24, 32} {
		key := make([]byte, keyLen)
		rng.Read(key)
		c, err := NewCiphers(key)
		require.NoError(t, err)

		for _, blocks := range []int{1, 2, 3, 16, MaxLen / BlockSize} {
			x := make([]byte, blocks*BlockSize)
			rng.Read(x)
			p1, err := c.PRF(x)
			require.NoError(t, err)
			p2, err := c.PRF2(x)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(p1, p2), "key %d bytes, %d blocks", keyLen, blocks)
			assert.Len(t, p1, BlockSize)
		}
	}
}

func TestPRFSingleBlockIsCIPH(t *testing.T) {
	key := mustDecodeHex("2B7E151628AED2A6ABF7158809CF4F3C")
	x := mustDecodeHex("0102010000000A050000000A00000000")
	p, err := PRF(key, x)
	require.NoError(t, err)
	c, err := Ciph(key, x)
	require.NoError(t, err)
	assert.Equal(t, c, p)
}

func TestCiphersErrors(t *testing.T) {
	_, err := NewCiphers(make([]byte, 15))
	assert.ErrorIs(t, err, ErrKeySize)
	_, err = NewCiphers(nil)
	assert.ErrorIs(t, err, ErrNilArgument)

	key := make([]byte, 16)
	_, err = PRF(key, nil)
	assert.ErrorIs(t, err, ErrLength)
	_, err = PRF2(key, make([]byte, 17))
	assert.ErrorIs(t, err, ErrLength)
	_, err = Ciph(key, make([]byte, MaxLen+BlockSize))
	assert.ErrorIs(t, err, ErrLength)
}

func TestOffsets(t *testing.T) {
	key := mustDecodeHex("2B7E151628AED2A6ABF7158809CF4F3C")
	tweak := mustDecodeHex("00112233445566778899aabbccddeeff")

	var o Offset = ZeroOffset{}
	got, err := o.Off(key, tweak)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, BlockSize), got)

	o = CipherOffset{}
	got, err = o.Off(key, tweak)
	require.NoError(t, err)
	want, err := Ciph(key, tweak)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = o.Off(key, tweak[:8])
	assert.ErrorIs(t, err, ErrTweakLength)
}
