package client

import (
	"context"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/internal/envelope"
	"cipher-ledger/go-client/internal/identity"
	"cipher-ledger/go-client/internal/metrics"
	"cipher-ledger/go-client/pkg/models"
)

// Register publishes the wallet's encryption public key in its profile.
func (c *Client) Register(ctx context.Context, w identity.Wallet) (models.Address, error) {
	const op = "register"
	user := w.Address()
	ix, profile, err := c.RegisterInstruction(user, w.Encryption.PublicKey)
	if err != nil {
		return models.Address{}, c.fail(op, user.String(), ErrorCategorySeed, err)
	}
	if err := c.submit(ctx, codec.InstructionRegister, profile, ix, w); err != nil {
		return models.Address{}, err
	}
	return profile, nil
}

// CreateNote encrypts plaintext to the wallet itself and stores it at the
// note address for timestamp. Timestamps must be unique per creator.
func (c *Client) CreateNote(ctx context.Context, w identity.Wallet, plaintext []byte, timestamp int64) (models.Address, error) {
	const op = "create_note"
	creator := w.Address()
	ciphertext, nonce, err := c.envelope.EncryptNote(plaintext, w.Encryption.SecretKey[:])
	if err != nil {
		return models.Address{}, c.fail(op, creator.String(), ErrorCategoryCrypto, err)
	}
	ix, note, err := c.CreateNoteInstruction(creator, codec.CreateNoteCommand{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Timestamp:  timestamp,
	})
	if err != nil {
		return models.Address{}, c.fail(op, creator.String(), ErrorCategory(err), err)
	}
	if err := c.submit(ctx, codec.InstructionCreateNote, note, ix, w); err != nil {
		return models.Address{}, err
	}
	return note, nil
}

// UpdateNote re-encrypts the note at address with a fresh nonce.
func (c *Client) UpdateNote(ctx context.Context, w identity.Wallet, note models.Address, plaintext []byte) error {
	const op = "update_note"
	ciphertext, nonce, err := c.envelope.EncryptNote(plaintext, w.Encryption.SecretKey[:])
	if err != nil {
		return c.fail(op, note.String(), ErrorCategoryCrypto, err)
	}
	ix, err := c.UpdateNoteInstruction(w.Address(), note, codec.UpdateNoteCommand{Ciphertext: ciphertext, Nonce: nonce})
	if err != nil {
		return c.fail(op, note.String(), ErrorCategoryCodec, err)
	}
	return c.submit(ctx, codec.InstructionUpdateNote, note, ix, w)
}

func (c *Client) DeleteNote(ctx context.Context, w identity.Wallet, note models.Address) error {
	return c.submit(ctx, codec.InstructionDeleteNote, note, c.DeleteNoteInstruction(w.Address(), note), w)
}

// SendMessage encrypts plaintext to the recipient's registered encryption key
// and stores it at the message address for (sender, recipient, timestamp).
func (c *Client) SendMessage(ctx context.Context, w identity.Wallet, recipient models.Address, plaintext []byte, timestamp int64) (models.Address, error) {
	const op = "send_message"
	profile, ok, err := c.FetchProfile(ctx, recipient)
	if err != nil {
		return models.Address{}, err
	}
	if !ok {
		return models.Address{}, c.fail(op, recipient.String(), ErrorCategoryLedger, ErrRecipientNotRegistered)
	}
	ciphertext, nonce, ephemeral, err := c.envelope.EncryptMessage(plaintext, profile.EncryptionPublicKey)
	if err != nil {
		return models.Address{}, c.fail(op, recipient.String(), ErrorCategoryCrypto, err)
	}
	ix, message, err := c.SendMessageInstruction(w.Address(), recipient, codec.SendMessageCommand{
		Ciphertext:         ciphertext,
		Nonce:              nonce,
		EphemeralPublicKey: ephemeral,
		Timestamp:          timestamp,
	})
	if err != nil {
		return models.Address{}, c.fail(op, recipient.String(), ErrorCategory(err), err)
	}
	if err := c.submit(ctx, codec.InstructionSendMessage, message, ix, w); err != nil {
		return models.Address{}, err
	}
	return message, nil
}

// ReadNote fetches and decrypts a note owned by the wallet. An absent note is
// (nil, false, nil).
func (c *Client) ReadNote(ctx context.Context, w identity.Wallet, address models.Address) ([]byte, bool, error) {
	const op = "read_note"
	note, ok, err := c.FetchNote(ctx, address)
	if err != nil || !ok {
		return nil, false, err
	}
	plaintext, err := envelope.DecryptNote(note.Ciphertext, note.Nonce, w.Encryption.SecretKey[:])
	if err != nil {
		return nil, false, c.fail(op, address.String(), ErrorCategoryCrypto, err)
	}
	return plaintext, true, nil
}

// ReadMessage fetches and decrypts a message addressed to the wallet.
func (c *Client) ReadMessage(ctx context.Context, w identity.Wallet, address models.Address) (models.Message, []byte, bool, error) {
	const op = "read_message"
	message, ok, err := c.FetchMessage(ctx, address)
	if err != nil || !ok {
		return models.Message{}, nil, false, err
	}
	plaintext, err := envelope.DecryptMessage(message.Ciphertext, message.Nonce, message.EphemeralPublicKey, w.Encryption.SecretKey)
	if err != nil {
		return message, nil, false, c.fail(op, address.String(), ErrorCategoryCrypto, err)
	}
	return message, plaintext, true, nil
}

func (c *Client) submit(ctx context.Context, kind codec.InstructionKind, target models.Address, ix models.Instruction, w identity.Wallet) error {
	op := kind.String()
	if c.submitter == nil {
		c.metrics.RecordSubmit(op, metrics.ResultInvalid)
		return c.fail(op, target.String(), ErrorCategoryInput, ErrNoSubmitter)
	}
	if err := c.submitter.Submit(ctx, ix, w.SigningKey); err != nil {
		c.metrics.RecordSubmit(op, metrics.ResultError)
		return c.fail(op, target.String(), ErrorCategoryLedger, err)
	}
	c.metrics.RecordSubmit(op, metrics.ResultOK)
	c.logInfo(op, target.String(), "instruction submitted", "address", target.String(), "accounts", len(ix.Accounts))
	return nil
}
