package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdparikh/fpe/v2/subtle"
)

const sampleKey = "2B7E151628AED2A6ABF7158809CF4F3C"

func TestResolveKey(t *testing.T) {
	t.Run("hex key wins", func(t *testing.T) {
		key, err := resolveKey(sampleKey, "ignored", "salt", nil)
		require.NoError(t, err)
		assert.Len(t, key, 16)
	})

	t.Run("bad hex", func(t *testing.T) {
		_, err := resolveKey("zz", "", "salt", nil)
		assert.Error(t, err)
	})

	t.Run("passphrase", func(t *testing.T) {
		a, err := resolveKey("", "correct horse", "salt", nil)
		require.NoError(t, err)
		b, err := resolveKey("", "correct horse", "salt", nil)
		require.NoError(t, err)
		c, err := resolveKey("", "correct horse", "pepper", nil)
		require.NoError(t, err)

		assert.Len(t, a, keyLength)
		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c, "salt must change the key")
	})

	t.Run("prompt", func(t *testing.T) {
		called := false
		prompt := func() (string, error) {
			called = true
			return "correct horse", nil
		}
		key, err := resolveKey("", "", "salt", prompt)
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, deriveKey("correct horse", "salt"), key)
	})

	t.Run("prompt error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := resolveKey("", "", "salt", func() (string, error) { return "", boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := resolveKey("", "", "salt", nil)
		assert.Error(t, err)
	})
}

func TestResolveAlphabet(t *testing.T) {
	tests := []struct {
		chars     string
		radix     int
		wantRadix int
		wantErr   bool
	}{
		{"", 0, 10, false},
		{"", 16, 16, false},
		{"", 36, 36, false},
		{"", 37, 0, true},
		{"abc", 0, 3, false},
		{"abc", 3, 3, false},
		{"abc", 4, 0, true},
		{"αβγδ", 0, 4, false},
		{"aa", 0, 0, true},
	}
	for _, tt := range tests {
		a, err := resolveAlphabet(tt.chars, tt.radix)
		if tt.wantErr {
			assert.Error(t, err, "chars=%q radix=%d", tt.chars, tt.radix)
			continue
		}
		require.NoError(t, err, "chars=%q radix=%d", tt.chars, tt.radix)
		assert.Equal(t, tt.wantRadix, a.Radix())
	}
}

func TestNewCipher(t *testing.T) {
	for _, name := range []string{"ff1", "FF2", "ff3"} {
		c, err := newCipher(name, 10, 256, 8)
		require.NoError(t, err, name)
		assert.NotNil(t, c)
	}
	_, err := newCipher("ff4", 10, 256, 8)
	assert.Error(t, err)
	_, err = newCipher("ff1", 1, 256, 8)
	assert.ErrorIs(t, err, subtle.ErrRadix)
}

func TestTransformAllKeepsOrder(t *testing.T) {
	values := make([]string, 100)
	for i := range values {
		values[i] = strings.Repeat("x", i)
	}
	var inFlight, peak int32
	fn := func(v string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(&inFlight, -1)
		return strings.ToUpper(v), nil
	}

	results, err := transformAll(context.Background(), values, 3, fn)
	require.NoError(t, err)
	require.Len(t, results, len(values))
	for i, r := range results {
		assert.Equal(t, strings.Repeat("X", i), r)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestTransformAllError(t *testing.T) {
	boom := errors.New("boom")
	_, err := transformAll(context.Background(), []string{"a", "b", "c"}, 1, func(v string) (string, error) {
		if v == "b" {
			return "", boom
		}
		return v, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "value 2")
}

func TestReadValues(t *testing.T) {
	values, err := readValues("-", strings.NewReader("0123\n\n  4567 \n89"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0123", "4567", "89"}, values)

	_, err = readValues("/nonexistent/values.txt", nil)
	assert.Error(t, err)
}

func TestSelftestVectors(t *testing.T) {
	for _, v := range vectors {
		assert.NoError(t, v.check(), v.name)
	}
}

func TestCheckValue(t *testing.T) {
	key := []byte("0123456789abcdef")
	kcv, err := checkValue(key, 3)
	require.NoError(t, err)
	assert.Len(t, kcv, 6)

	again, err := checkValue(key, 3)
	require.NoError(t, err)
	assert.Equal(t, kcv, again)

	long, err := checkValue(key, 16)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(long, kcv))

	other, err := checkValue([]byte("fedcba9876543210"), 3)
	require.NoError(t, err)
	assert.NotEqual(t, kcv, other)

	_, err = checkValue(key, 0)
	assert.Error(t, err)
	_, err = checkValue([]byte("short"), 3)
	assert.Error(t, err)
}

func TestEncryptDecryptCommands(t *testing.T) {
	run := func(args ...string) string {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(args)
		require.NoError(t, rootCmd.Execute())
		return strings.TrimSpace(out.String())
	}

	// NIST FF1 sample 1
	assert.Equal(t, "2433477484", run("encrypt", "--key", sampleKey, "0123456789"))
	assert.Equal(t, "0123456789", run("decrypt", "--key", sampleKey, "2433477484"))

	// FF2 round trip with a tweak
	ct := run("encrypt", "--key", sampleKey, "--cipher", "ff2", "--tweak", "0102", "4000123412341234")
	assert.Len(t, ct, 16)
	assert.Equal(t, "4000123412341234", run("decrypt", "--key", sampleKey, "--cipher", "ff2", "--tweak", "0102", ct))
}
