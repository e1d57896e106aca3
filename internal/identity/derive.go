package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"io"

	"cipher-ledger/go-client/internal/envelope"

	"golang.org/x/crypto/hkdf"
)

const (
	hkdfInfoSigning    = "cipher/wallet/signing/v1"
	hkdfInfoEncryption = "cipher/wallet/encryption/v1"
)

var ErrEmptySeed = errors.New("empty seed")

// DeriveWallet expands a BIP-39 seed into independent signing and encryption
// keys, so the same mnemonic always yields the same wallet.
func DeriveWallet(seedBytes []byte) (Wallet, error) {
	if len(seedBytes) == 0 {
		return Wallet{}, ErrEmptySeed
	}
	signingSeed, err := hkdfExpand(seedBytes, hkdfInfoSigning, ed25519.SeedSize)
	if err != nil {
		return Wallet{}, err
	}
	encryptionSecret, err := hkdfExpand(seedBytes, hkdfInfoEncryption, envelope.KeySize)
	if err != nil {
		return Wallet{}, err
	}
	defer zeroBytes(signingSeed)
	defer zeroBytes(encryptionSecret)

	pair, err := envelope.KeyPairFromSecret(encryptionSecret)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{
		SigningKey: ed25519.NewKeyFromSeed(signingSeed),
		Encryption: pair,
	}, nil
}

func hkdfExpand(seed []byte, info string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, seed, nil, []byte(info))
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
