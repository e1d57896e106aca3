// Package ledger declares the remote ledger capabilities the client consumes
// and provides in-process implementations of them.
package ledger

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"cipher-ledger/go-client/pkg/models"
)

var ErrMissingSigner = errors.New("missing signer")

type KeyedAccount struct {
	Address models.Address
	Data    []byte
}

// Reader fetches raw account data. A missing account is (nil, false, nil).
type Reader interface {
	GetAccount(ctx context.Context, address models.Address) ([]byte, bool, error)
	GetProgramAccounts(ctx context.Context, programID models.Address, filters []models.Filter) ([]KeyedAccount, error)
}

type Submitter interface {
	Submit(ctx context.Context, ix models.Instruction, signers ...ed25519.PrivateKey) error
}

// CheckSigners verifies that every account flagged as signer has a key.
func CheckSigners(ix models.Instruction, signers []ed25519.PrivateKey) error {
	have := make(map[models.Address]struct{}, len(signers))
	for _, key := range signers {
		if len(key) != ed25519.PrivateKeySize {
			continue
		}
		var pub models.Address
		copy(pub[:], key.Public().(ed25519.PublicKey))
		have[pub] = struct{}{}
	}
	for _, meta := range ix.Accounts {
		if !meta.IsSigner {
			continue
		}
		if _, ok := have[meta.Address]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingSigner, meta.Address)
		}
	}
	return nil
}
