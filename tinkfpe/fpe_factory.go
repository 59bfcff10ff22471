package tinkfpe

import (
	"fmt"

	"github.com/google/tink/go/keyset"

	"github.com/vdparikh/fpe/v2"
	"github.com/vdparikh/fpe/v2/ffx"
)

// Key is the primitive the KeyManager returns for an FPE key: validated AES
// key material from which tokenizers are built.
type Key struct {
	material []byte
}

// Size returns the key size in bytes.
func (k *Key) Size() int {
	return len(k.material)
}

// Tokenizer builds a tokenizer for the given variant and tweak.
func (k *Key) Tokenizer(variant fpe.Variant, tweak []byte, opts ...ffx.Option) (*fpe.Tokenizer, error) {
	return fpe.NewTokenizer(variant, k.material, tweak, opts...)
}

// New creates a new FF1 FPE primitive from a Tink keyset handle.
// This is the main entry point for users following Tink's pattern.
//
// Example:
//
//	handle, err := keyset.NewHandle(tinkfpe.KeyTemplate())
//	if err != nil {
//	    return err
//	}
//	primitive, err := tinkfpe.New(handle, []byte("tweak"))
//	if err != nil {
//	    return err
//	}
//	tokenized, err := primitive.Tokenize("123-45-6789")
func New(handle *keyset.Handle, tweak []byte, opts ...ffx.Option) (fpe.AlphabetFPE, error) {
	return NewWithVariant(handle, fpe.VariantFF1, tweak, opts...)
}

// NewWithVariant creates an FPE primitive for the given variant from the
// primary key of handle. FF3 requires an 8-byte tweak.
func NewWithVariant(handle *keyset.Handle, variant fpe.Variant, tweak []byte, opts ...ffx.Option) (fpe.AlphabetFPE, error) {
	key, err := PrimaryKey(handle)
	if err != nil {
		return nil, err
	}
	tok, err := key.Tokenizer(variant, tweak, opts...)
	if err != nil {
		return nil, fmt.Errorf("tinkfpe: failed to create %s tokenizer: %w", variant, err)
	}
	return tok, nil
}

// PrimaryKey returns the primary key of handle as a *Key. It registers the
// KeyManager if needed.
func PrimaryKey(handle *keyset.Handle) (*Key, error) {
	if handle == nil {
		return nil, fmt.Errorf("tinkfpe: keyset handle cannot be nil")
	}
	if err := Register(); err != nil {
		return nil, fmt.Errorf("tinkfpe: failed to register key manager: %w", err)
	}

	// Extract the primary key from the keyset using Tink's Primitives API
	primitives, err := handle.Primitives()
	if err != nil {
		return nil, fmt.Errorf("tinkfpe: failed to get primitives from handle: %w", err)
	}
	if primitives.Primary == nil {
		return nil, fmt.Errorf("tinkfpe: no primary key found in keyset")
	}

	key, ok := primitives.Primary.Primitive.(*Key)
	if !ok {
		return nil, fmt.Errorf("tinkfpe: primary key is not an FPE key (got %T)", primitives.Primary.Primitive)
	}
	return key, nil
}
