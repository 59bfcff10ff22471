package tinkfpe

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdparikh/fpe/v2"
)

// WycheproofTestSuite represents the top-level structure of a Wycheproof test file
type WycheproofTestSuite struct {
	Algorithm        string                `json:"algorithm"`
	GeneratorVersion string                `json:"generatorVersion"`
	NumberOfTests    int                   `json:"numberOfTests"`
	TestGroups       []WycheproofTestGroup `json:"testGroups"`
}

// WycheproofTestGroup represents a group of related tests
type WycheproofTestGroup struct {
	Type  string               `json:"type"`
	Tests []WycheproofTestCase `json:"tests"`
}

// WycheproofTestCase represents a single test case
type WycheproofTestCase struct {
	TCID       int    `json:"tcId"`
	Comment    string `json:"comment"`
	Variant    string `json:"variant,omitempty"` // "FF1" when empty
	Key        string `json:"key"`               // Hex-encoded
	Tweak      string `json:"tweak"`             // Hex-encoded (empty string = empty tweak)
	Plaintext  string `json:"plaintext"`
	Ciphertext string `json:"ciphertext,omitempty"` // Optional, for valid tests
	Result     string `json:"result"`               // "valid" or "invalid"
}

func (tc WycheproofTestCase) variant() fpe.Variant {
	if tc.Variant == "" {
		return fpe.VariantFF1
	}
	return fpe.Variant(tc.Variant)
}

// TestWycheproofVectors runs the Wycheproof-style test suite through keyset
// handles, exactly as an application would.
func TestWycheproofVectors(t *testing.T) {
	require.NoError(t, Register())

	suite, err := loadWycheproofTestSuite()
	require.NoError(t, err)

	total := 0
	for _, group := range suite.TestGroups {
		total += len(group.Tests)
	}
	require.Equal(t, suite.NumberOfTests, total, "numberOfTests out of date")

	for _, group := range suite.TestGroups {
		t.Run(group.Type, func(t *testing.T) {
			for _, testCase := range group.Tests {
				testName := fmt.Sprintf("TC%d_%s", testCase.TCID, sanitizeTestName(testCase.Comment))
				t.Run(testName, func(t *testing.T) {
					switch testCase.Result {
					case "valid":
						runValidTest(t, testCase)
					case "invalid":
						runInvalidTest(t, testCase)
					default:
						t.Fatalf("TC%d: Unknown result type: %s", testCase.TCID, testCase.Result)
					}
				})
			}
		})
	}
}

func primitiveFor(testCase WycheproofTestCase) (fpe.FPE, error) {
	key, err := hex.DecodeString(testCase.Key)
	if err != nil {
		return nil, err
	}
	tweak, err := hex.DecodeString(testCase.Tweak)
	if err != nil {
		return nil, err
	}
	handle, err := NewKeysetHandleFromKey(key)
	if err != nil {
		return nil, err
	}
	return NewWithVariant(handle, testCase.variant(), tweak)
}

// runValidTest runs a test case that should succeed
func runValidTest(t *testing.T, testCase WycheproofTestCase) {
	primitive, err := primitiveFor(testCase)
	require.NoError(t, err)

	tokenized, err := primitive.Tokenize(testCase.Plaintext)
	require.NoError(t, err)

	if testCase.Ciphertext != "" {
		assert.Equal(t, testCase.Ciphertext, tokenized, "TC%d: ciphertext mismatch", testCase.TCID)
	}
	assert.Equal(t, len([]rune(testCase.Plaintext)), len([]rune(tokenized)), "TC%d: format not preserved", testCase.TCID)

	detokenized, err := primitive.Detokenize(tokenized, testCase.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, testCase.Plaintext, detokenized, "TC%d: round-trip failed", testCase.TCID)

	tokenized2, err := primitive.Tokenize(testCase.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, tokenized, tokenized2, "TC%d: determinism failed", testCase.TCID)
}

// runInvalidTest runs a test case that must be rejected, either when the
// primitive is built or when it is used.
func runInvalidTest(t *testing.T, testCase WycheproofTestCase) {
	primitive, err := primitiveFor(testCase)
	if err != nil {
		return
	}
	_, err = primitive.Tokenize(testCase.Plaintext)
	assert.Error(t, err, "TC%d: expected invalid input to be rejected", testCase.TCID)
}

// loadWycheproofTestSuite loads the Wycheproof test suite from JSON
func loadWycheproofTestSuite() (*WycheproofTestSuite, error) {
	data, err := os.ReadFile(filepath.Join("testdata", "wycheproof_ff1_vectors.json"))
	if err != nil {
		return nil, err
	}

	var suite WycheproofTestSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, err
	}
	return &suite, nil
}

// sanitizeTestName creates a safe test name from a comment
func sanitizeTestName(comment string) string {
	result := make([]rune, 0, len(comment))
	for _, r := range comment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	if len(result) > 50 {
		result = result[:50]
	}
	return string(result)
}
