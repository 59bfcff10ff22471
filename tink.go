package fpe

// FPE is the primitive a Tink keyset handle yields for FPE keys (see the
// tinkfpe package). Like tink.DeterministicAEAD it is deterministic: the same
// plaintext under the same key and tweak always gives the same token.
type FPE interface {
	// Tokenize enciphers the data characters of plaintext and keeps its
	// format characters in place.
	Tokenize(plaintext string) (string, error)

	// Detokenize inverts Tokenize. originalPlaintext, when not empty, fixes
	// the alphabet; otherwise it is inferred from tokenized.
	Detokenize(tokenized string, originalPlaintext string) (string, error)
}

// AlphabetFPE is an FPE whose alphabet can be fixed by the caller instead of
// inferred from the input.
type AlphabetFPE interface {
	FPE
	TokenizeWithAlphabet(plaintext, alphabet string) (string, error)
	DetokenizeWithAlphabet(tokenized, alphabet string) (string, error)
}

var _ AlphabetFPE = (*Tokenizer)(nil)
