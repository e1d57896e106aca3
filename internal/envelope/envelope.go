// Package envelope implements the encryption carried inside note and message
// records: secretbox self-encryption for notes and ephemeral-key box
// encryption for messages.
package envelope

import (
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"

	"cipher-ledger/go-client/pkg/models"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	NonceSize = models.NonceSize
	KeySize   = 32
	Overhead  = secretbox.Overhead

	MaxNoteContent    = 1024
	MaxMessageContent = 2048
)

var (
	ErrDecryptionFailed    = errors.New("decryption failed")
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	ErrInvalidKey          = errors.New("invalid key")
	ErrContentTooLarge     = errors.New("content too large")
)

type KeyPair struct {
	PublicKey [KeySize]byte
	SecretKey [KeySize]byte
}

// Envelope holds the random source used for nonces and ephemeral keys.
// A nil Rand uses crypto/rand.
type Envelope struct {
	Rand io.Reader
}

func New() *Envelope {
	return &Envelope{Rand: rand.Reader}
}

func (e *Envelope) random() io.Reader {
	if e == nil || e.Rand == nil {
		return rand.Reader
	}
	return e.Rand
}

func (e *Envelope) nonce() ([NonceSize]byte, error) {
	var n [NonceSize]byte
	if _, err := io.ReadFull(e.random(), n[:]); err != nil {
		return n, fmt.Errorf("generate nonce: %w", err)
	}
	return n, nil
}

// GenerateKeyPair returns a fresh X25519 key pair.
func (e *Envelope) GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := box.GenerateKey(e.random())
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate key pair: %w", err)
	}
	return KeyPair{PublicKey: *pub, SecretKey: *priv}, nil
}

// KeyPairFromSecret rebuilds the X25519 pair for an existing secret key.
func KeyPairFromSecret(secret []byte) (KeyPair, error) {
	if len(secret) != KeySize {
		return KeyPair{}, fmt.Errorf("%w: secret key is %d bytes", ErrInvalidKey, len(secret))
	}
	pub, err := curve25519.X25519(secret, curve25519.Basepoint)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	var kp KeyPair
	copy(kp.SecretKey[:], secret)
	copy(kp.PublicKey[:], pub)
	return kp, nil
}

// NoteKey is SHA-512 of the owner's secret key truncated to 32 bytes.
func NoteKey(ownerSecretKey []byte) ([KeySize]byte, error) {
	var key [KeySize]byte
	if len(ownerSecretKey) == 0 {
		return key, fmt.Errorf("%w: empty owner secret key", ErrInvalidKey)
	}
	sum := sha512.Sum512(ownerSecretKey)
	copy(key[:], sum[:KeySize])
	return key, nil
}

func (e *Envelope) EncryptNote(plaintext, ownerSecretKey []byte) ([]byte, [NonceSize]byte, error) {
	var nonce [NonceSize]byte
	if len(plaintext) > MaxNoteContent {
		return nil, nonce, fmt.Errorf("%w: note is %d bytes, limit %d", ErrContentTooLarge, len(plaintext), MaxNoteContent)
	}
	key, err := NoteKey(ownerSecretKey)
	if err != nil {
		return nil, nonce, err
	}
	defer zeroBytes(key[:])
	nonce, err = e.nonce()
	if err != nil {
		return nil, nonce, err
	}
	return secretbox.Seal(nil, plaintext, &nonce, &key), nonce, nil
}

func DecryptNote(ciphertext []byte, nonce [NonceSize]byte, ownerSecretKey []byte) ([]byte, error) {
	if len(ciphertext) < Overhead {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d-byte tag", ErrMalformedCiphertext, len(ciphertext), Overhead)
	}
	key, err := NoteKey(ownerSecretKey)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(key[:])
	plaintext, ok := secretbox.Open(nil, ciphertext, &nonce, &key)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptMessage seals plaintext to the recipient with a single-use ephemeral
// key; only the ephemeral public key leaves this call.
func (e *Envelope) EncryptMessage(plaintext []byte, recipientPublicKey [KeySize]byte) ([]byte, [NonceSize]byte, [KeySize]byte, error) {
	var nonce [NonceSize]byte
	var ephemeralPub [KeySize]byte
	if len(plaintext) > MaxMessageContent {
		return nil, nonce, ephemeralPub, fmt.Errorf("%w: message is %d bytes, limit %d", ErrContentTooLarge, len(plaintext), MaxMessageContent)
	}
	ephemeral, err := e.GenerateKeyPair()
	if err != nil {
		return nil, nonce, ephemeralPub, err
	}
	defer zeroBytes(ephemeral.SecretKey[:])
	// Low-order recipient keys yield an all-zero shared secret.
	shared, err := curve25519.X25519(ephemeral.SecretKey[:], recipientPublicKey[:])
	if err != nil {
		return nil, nonce, ephemeralPub, fmt.Errorf("%w: recipient public key: %v", ErrInvalidKey, err)
	}
	zeroBytes(shared)
	nonce, err = e.nonce()
	if err != nil {
		return nil, nonce, ephemeralPub, err
	}
	ciphertext := box.Seal(nil, plaintext, &nonce, &recipientPublicKey, &ephemeral.SecretKey)
	return ciphertext, nonce, ephemeral.PublicKey, nil
}

func DecryptMessage(ciphertext []byte, nonce [NonceSize]byte, ephemeralPublicKey, recipientSecretKey [KeySize]byte) ([]byte, error) {
	if len(ciphertext) < box.Overhead {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d-byte tag", ErrMalformedCiphertext, len(ciphertext), box.Overhead)
	}
	plaintext, ok := box.Open(nil, ciphertext, &nonce, &ephemeralPublicKey, &recipientSecretKey)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
