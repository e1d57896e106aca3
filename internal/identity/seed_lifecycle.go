// Package identity turns a BIP-39 mnemonic into the wallet keys the record
// client signs and decrypts with, and keeps the mnemonic sealed at rest.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cipher-ledger/go-client/internal/securestore"

	"github.com/tyler-smith/go-bip39"
)

var (
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrSeedNotAvailable = errors.New("seed is not available")
	ErrPasswordRequired = errors.New("password is required")
	ErrMnemonicRequired = errors.New("mnemonic is required")
	ErrPasswordLocked   = errors.New("password attempts are temporarily locked")
)

// Keyring holds a sealed mnemonic and rate limits failed unlock attempts.
type Keyring struct {
	mu             sync.RWMutex
	sealed         []byte
	sealer         securestore.Sealer
	failedAttempts int
	lockedUntil    time.Time
	now            func() time.Time
}

func NewKeyring() *Keyring {
	return &Keyring{now: time.Now}
}

// NewKeyringWithSealer overrides the sealing parameters, mainly for tests.
func NewKeyringWithSealer(sealer securestore.Sealer) *Keyring {
	return &Keyring{sealer: sealer, now: time.Now}
}

func newKeyringWithClock(sealer securestore.Sealer, now func() time.Time) *Keyring {
	return &Keyring{sealer: sealer, now: now}
}

// Create generates a 24-word mnemonic, seals it and returns its wallet.
func (k *Keyring) Create(password string) (mnemonic string, wallet Wallet, err error) {
	if strings.TrimSpace(password) == "" {
		return "", Wallet{}, ErrPasswordRequired
	}
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", Wallet{}, err
	}
	mnemonic, err = bip39.NewMnemonic(entropy)
	if err != nil {
		return "", Wallet{}, err
	}
	return k.Import(mnemonic, password)
}

func (k *Keyring) Import(mnemonic, password string) (normalizedMnemonic string, wallet Wallet, err error) {
	mnemonic = normalizeMnemonic(mnemonic)
	if mnemonic == "" {
		return "", Wallet{}, ErrMnemonicRequired
	}
	if strings.TrimSpace(password) == "" {
		return "", Wallet{}, ErrPasswordRequired
	}
	wallet, err = WalletFromMnemonic(mnemonic)
	if err != nil {
		return "", Wallet{}, err
	}
	sealed, err := k.sealer.Seal(password, []byte(mnemonic))
	if err != nil {
		return "", Wallet{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.sealed = sealed
	k.resetPasswordAttemptState()
	return mnemonic, wallet, nil
}

// Export opens the sealed mnemonic.
func (k *Keyring) Export(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrPasswordRequired
	}
	plaintext, err := k.open(password)
	if err != nil {
		return "", err
	}
	mnemonic := normalizeMnemonic(string(plaintext))
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", fmt.Errorf("%w: corrupted mnemonic", ErrInvalidMnemonic)
	}
	return mnemonic, nil
}

// Unlock opens the sealed mnemonic and derives its wallet.
func (k *Keyring) Unlock(password string) (Wallet, error) {
	mnemonic, err := k.Export(password)
	if err != nil {
		return Wallet{}, err
	}
	return WalletFromMnemonic(mnemonic)
}

// ChangePassword reseals under newPassword. Passwords are used exactly as
// given everywhere; only blank ones are rejected.
func (k *Keyring) ChangePassword(oldPassword, newPassword string) error {
	if strings.TrimSpace(oldPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return ErrPasswordRequired
	}
	mnemonic, err := k.open(oldPassword)
	if err != nil {
		return err
	}
	defer zeroBytes(mnemonic)
	resealed, err := k.sealer.Seal(newPassword, mnemonic)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.sealed = resealed
	return nil
}

// Sealed returns the keystore bytes for persistence.
func (k *Keyring) Sealed() []byte {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return append([]byte(nil), k.sealed...)
}

// Load replaces the held keystore with previously persisted bytes.
func (k *Keyring) Load(sealed []byte) error {
	if !securestore.IsSealed(sealed) {
		return securestore.ErrUnsealedData
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.sealed = append([]byte(nil), sealed...)
	k.resetPasswordAttemptState()
	return nil
}

func (k *Keyring) ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(normalizeMnemonic(mnemonic))
}

func (k *Keyring) open(password string) ([]byte, error) {
	k.mu.Lock()
	sealed := k.sealed
	if err := k.ensureUnlocked(); err != nil {
		k.mu.Unlock()
		return nil, err
	}
	k.mu.Unlock()
	if len(sealed) == 0 {
		return nil, ErrSeedNotAvailable
	}

	plaintext, err := securestore.Open(password, sealed)
	k.mu.Lock()
	defer k.mu.Unlock()
	if err != nil {
		if errors.Is(err, securestore.ErrAuthFailed) {
			k.onFailedPasswordAttempt()
			return nil, ErrInvalidPassword
		}
		return nil, err
	}
	k.resetPasswordAttemptState()
	return plaintext, nil
}

func (k *Keyring) ensureUnlocked() error {
	if k.lockedUntil.IsZero() {
		return nil
	}
	if k.now().Before(k.lockedUntil) {
		return ErrPasswordLocked
	}
	return nil
}

func (k *Keyring) onFailedPasswordAttempt() {
	k.failedAttempts++
	k.lockedUntil = k.now().Add(failedAttemptBackoff(k.failedAttempts))
}

func (k *Keyring) resetPasswordAttemptState() {
	k.failedAttempts = 0
	k.lockedUntil = time.Time{}
}

func failedAttemptBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// 1s, 2s, 4s... up to 32s max.
	shift := attempt - 1
	if shift > 5 {
		shift = 5
	}
	return time.Second * time.Duration(1<<shift)
}

// WalletFromMnemonic derives the wallet for a mnemonic with an empty BIP-39
// passphrase.
func WalletFromMnemonic(mnemonic string) (Wallet, error) {
	mnemonic = normalizeMnemonic(mnemonic)
	if mnemonic == "" {
		return Wallet{}, ErrMnemonicRequired
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return Wallet{}, ErrInvalidMnemonic
	}
	return DeriveWallet(bip39.NewSeed(mnemonic, ""))
}

func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}
