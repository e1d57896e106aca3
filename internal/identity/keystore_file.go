package identity

import (
	"cipher-ledger/go-client/internal/securestore"
)

// SaveFile persists the sealed keystore.
func (k *Keyring) SaveFile(path string) error {
	sealed := k.Sealed()
	if len(sealed) == 0 {
		return ErrSeedNotAvailable
	}
	return securestore.WriteSealedFile(path, sealed)
}

func (k *Keyring) LoadFile(path string) error {
	raw, err := securestore.ReadSealedFile(path)
	if err != nil {
		return err
	}
	return k.Load(raw)
}
