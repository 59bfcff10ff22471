package tinkfpe

import (
	"sync"

	"github.com/google/tink/go/core/registry"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register adds the FPE KeyManager to Tink's registry. It is safe to call
// more than once and from several goroutines; a manager registered earlier
// under FPEKeyTypeURL is left in place.
func Register() error {
	registerOnce.Do(func() {
		if _, err := registry.GetKeyManager(FPEKeyTypeURL); err == nil {
			return
		}
		registerErr = registry.RegisterKeyManager(NewKeyManager())
	})
	return registerErr
}
