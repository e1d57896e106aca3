package identity

import (
	"crypto/ed25519"

	"cipher-ledger/go-client/internal/envelope"
	"cipher-ledger/go-client/pkg/models"
)

// Wallet pairs the ed25519 key that signs ledger instructions with the X25519
// pair published in the profile record.
type Wallet struct {
	SigningKey ed25519.PrivateKey
	Encryption envelope.KeyPair
}

// Address is the wallet's public key as a ledger address.
func (w Wallet) Address() models.Address {
	var addr models.Address
	if len(w.SigningKey) == ed25519.PrivateKeySize {
		copy(addr[:], w.SigningKey.Public().(ed25519.PublicKey))
	}
	return addr
}
