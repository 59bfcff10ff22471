// Package tinkfpe provides Tink integration for Format-Preserving Encryption.
//
// FPE keys live in ordinary Tink keysets under FPEKeyTypeURL. A KeyManager
// registered with Tink's registry turns the primary key of a keyset handle
// into a tokenizer:
//
//	if err := tinkfpe.Register(); err != nil {
//		log.Fatal(err)
//	}
//	handle, err := keyset.NewHandle(tinkfpe.KeyTemplate())
//	if err != nil {
//		log.Fatal(err)
//	}
//	primitive, err := tinkfpe.New(handle, []byte("tweak"))
package tinkfpe

import (
	"fmt"

	"github.com/google/tink/go/core/registry"
	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"
	tinkpb "github.com/google/tink/go/proto/tink_go_proto"
	"github.com/google/tink/go/subtle/random"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/vdparikh/fpe/v2/subtle"
)

const (
	// FPEKeyTypeURL is the type URL for FPE keys in Tink's registry.
	FPEKeyTypeURL = "type.googleapis.com/google.crypto.tink.FpeFf1Key"

	defaultKeySize = 32
)

// KeyManager implements registry.KeyManager for FPE keys.
//
// Keys are serialized as a google.protobuf.BytesValue holding the raw AES key;
// key formats as a google.protobuf.UInt32Value holding the key size in bytes.
type KeyManager struct {
	typeURL string
}

// NewKeyManager creates a new FPE key manager.
func NewKeyManager() *KeyManager {
	return &KeyManager{
		typeURL: FPEKeyTypeURL,
	}
}

// Primitive parses a serialized key and returns it as a *Key.
func (km *KeyManager) Primitive(serializedKey []byte) (interface{}, error) {
	if len(serializedKey) == 0 {
		return nil, fmt.Errorf("tinkfpe: empty serialized key")
	}
	key := new(wrapperspb.BytesValue)
	if err := proto.Unmarshal(serializedKey, key); err != nil {
		return nil, fmt.Errorf("tinkfpe: invalid serialized key: %w", err)
	}
	if err := subtle.ValidKey(key.GetValue()); err != nil {
		return nil, fmt.Errorf("tinkfpe: %w", err)
	}
	return &Key{material: append([]byte(nil), key.GetValue()...)}, nil
}

// DoesSupport returns true if this KeyManager supports the given key type URL.
func (km *KeyManager) DoesSupport(typeURL string) bool {
	return typeURL == km.typeURL
}

// TypeURL returns the type URL of the keys managed by this KeyManager.
func (km *KeyManager) TypeURL() string {
	return km.typeURL
}

// NewKey generates a new random key of the size named by the serialized key
// format. An empty format selects AES-256.
func (km *KeyManager) NewKey(serializedKeyFormat []byte) (proto.Message, error) {
	keySize := uint32(defaultKeySize)
	if len(serializedKeyFormat) > 0 {
		format := new(wrapperspb.UInt32Value)
		if err := proto.Unmarshal(serializedKeyFormat, format); err != nil {
			return nil, fmt.Errorf("tinkfpe: invalid key format: %w", err)
		}
		keySize = format.GetValue()
	}
	switch keySize {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("tinkfpe: invalid key size in template: %d bytes (must be 16, 24, or 32)", keySize)
	}
	return &wrapperspb.BytesValue{Value: random.GetRandomBytes(keySize)}, nil
}

// NewKeyData creates a new KeyData from the given key format.
func (km *KeyManager) NewKeyData(serializedKeyFormat []byte) (*tinkpb.KeyData, error) {
	key, err := km.NewKey(serializedKeyFormat)
	if err != nil {
		return nil, err
	}
	serializedKey, err := proto.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("tinkfpe: failed to serialize key: %w", err)
	}
	return &tinkpb.KeyData{
		TypeUrl:         km.typeURL,
		Value:           serializedKey,
		KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
	}, nil
}

var _ registry.KeyManager = (*KeyManager)(nil)

// KeyTemplate creates a key template for FPE keys.
// This allows users to generate keys with a single line:
//
//	handle, err := keyset.NewHandle(tinkfpe.KeyTemplate())
//
// The template generates AES-256 keys (32 bytes).
// For different key sizes, use KeyTemplateAES128() or KeyTemplateAES192().
func KeyTemplate() *tinkpb.KeyTemplate {
	return KeyTemplateAES256()
}

// KeyTemplateAES128 creates a key template for FPE with AES-128 (16 bytes).
func KeyTemplateAES128() *tinkpb.KeyTemplate {
	return keyTemplate(16)
}

// KeyTemplateAES192 creates a key template for FPE with AES-192 (24 bytes).
func KeyTemplateAES192() *tinkpb.KeyTemplate {
	return keyTemplate(24)
}

// KeyTemplateAES256 creates a key template for FPE with AES-256 (32 bytes).
func KeyTemplateAES256() *tinkpb.KeyTemplate {
	return keyTemplate(32)
}

func keyTemplate(keySize uint32) *tinkpb.KeyTemplate {
	format, err := proto.Marshal(&wrapperspb.UInt32Value{Value: keySize})
	if err != nil {
		panic(fmt.Sprintf("tinkfpe: failed to serialize key format: %v", err))
	}
	return &tinkpb.KeyTemplate{
		TypeUrl:          FPEKeyTypeURL,
		Value:            format,
		OutputPrefixType: tinkpb.OutputPrefixType_RAW,
	}
}

// NewKeysetHandleFromKey creates a keyset handle from a raw key (e.g., from an HSM).
// This is useful when you have a key from a custom HSM or key management system
// that isn't a standard Tink KMS client.
//
// The key must be 16, 24, or 32 bytes (AES-128, AES-192, or AES-256).
//
// Example:
//
//	hsmKey := []byte{...} // 32-byte key from your HSM
//	handle, err := tinkfpe.NewKeysetHandleFromKey(hsmKey)
//	if err != nil {
//		log.Fatal(err)
//	}
//	primitive, err := tinkfpe.New(handle, []byte("tweak"))
//
// Note: This creates an unencrypted keyset. In production, consider encrypting
// the keyset before storing it using keyset.Write() with an AEAD.
func NewKeysetHandleFromKey(key []byte) (*keyset.Handle, error) {
	if err := subtle.ValidKey(key); err != nil {
		return nil, fmt.Errorf("tinkfpe: %w", err)
	}

	serializedKey, err := proto.Marshal(&wrapperspb.BytesValue{Value: key})
	if err != nil {
		return nil, fmt.Errorf("tinkfpe: failed to serialize key: %w", err)
	}

	keyID := random.GetRandomUint32()
	ks := &tinkpb.Keyset{
		PrimaryKeyId: keyID,
		Key: []*tinkpb.Keyset_Key{{
			KeyData: &tinkpb.KeyData{
				TypeUrl:         FPEKeyTypeURL,
				Value:           serializedKey,
				KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
			},
			KeyId:            keyID,
			Status:           tinkpb.KeyStatusType_ENABLED,
			OutputPrefixType: tinkpb.OutputPrefixType_RAW,
		}},
	}

	return insecurecleartextkeyset.Read(&keyset.MemReaderWriter{Keyset: ks})
}
