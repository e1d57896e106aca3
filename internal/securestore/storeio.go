package securestore

import (
	"os"
	"path/filepath"
	"strings"
)

// WriteSealedFile writes already sealed bytes with owner-only permissions.
func WriteSealedFile(path string, sealed []byte) error {
	if !IsSealed(sealed) {
		return ErrUnsealedData
	}
	path = strings.TrimSpace(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, sealed, 0o600)
}

// ReadSealedFile returns keystore bytes without opening them.
func ReadSealedFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return nil, err
	}
	if !IsSealed(raw) {
		return nil, ErrUnsealedData
	}
	return raw, nil
}

// OpenFile reads and opens a keystore file.
func OpenFile(path, passphrase string) ([]byte, error) {
	raw, err := ReadSealedFile(path)
	if err != nil {
		return nil, err
	}
	return Open(passphrase, raw)
}
