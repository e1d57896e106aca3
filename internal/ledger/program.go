package ledger

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
	"time"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/internal/pda"
	"cipher-ledger/go-client/pkg/models"
)

var (
	ErrWrongProgram       = errors.New("instruction targets another program")
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnauthorized       = errors.New("signer does not own account")
)

// ProgramEmulator is a Submitter that executes instructions against a
// MemoryLedger the way the on-chain program would: it checks signers and
// derived addresses, then creates, rewrites or closes the target record.
type ProgramEmulator struct {
	mu      sync.Mutex
	ledger  *MemoryLedger
	codec   *codec.Codec
	deriver *pda.Deriver
	now     func() time.Time
}

func NewProgramEmulator(l *MemoryLedger, c *codec.Codec, d *pda.Deriver) *ProgramEmulator {
	return &ProgramEmulator{ledger: l, codec: c, deriver: d, now: time.Now}
}

// WithClock overrides the time source used for profile creation stamps.
func (p *ProgramEmulator) WithClock(now func() time.Time) *ProgramEmulator {
	p.now = now
	return p
}

func (p *ProgramEmulator) Submit(ctx context.Context, ix models.Instruction, signers ...ed25519.PrivateKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ix.ProgramID != p.deriver.ProgramID {
		return fmt.Errorf("%w: %s", ErrWrongProgram, ix.ProgramID)
	}
	if err := CheckSigners(ix, signers); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	kind, ok := p.codec.InstructionKind(ix.Data)
	if !ok {
		return fmt.Errorf("%w: unknown discriminator", ErrInvalidInstruction)
	}
	switch kind {
	case codec.InstructionRegister:
		return p.register(ix)
	case codec.InstructionCreateNote:
		return p.createNote(ix)
	case codec.InstructionUpdateNote:
		return p.updateNote(ix)
	case codec.InstructionDeleteNote:
		return p.deleteNote(ix)
	case codec.InstructionSendMessage:
		return p.sendMessage(ix)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidInstruction, kind)
	}
}

func (p *ProgramEmulator) register(ix models.Instruction) error {
	if err := requireAccounts(ix, 3); err != nil {
		return err
	}
	cmd, err := p.codec.DecodeRegister(ix.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	user, profile := ix.Accounts[0].Address, ix.Accounts[1].Address
	want, _, err := p.deriver.Profile(user)
	if err != nil {
		return err
	}
	if err := p.expectAddress("profile", profile, want); err != nil {
		return err
	}
	if p.exists(profile) {
		return fmt.Errorf("%w: profile %s", ErrAccountExists, profile)
	}
	data := p.codec.EncodeProfileAccount(models.Profile{
		Wallet:              user,
		EncryptionPublicKey: cmd.EncryptionPublicKey,
		CreatedAt:           p.now().Unix(),
	})
	p.ledger.Put(profile, p.deriver.ProgramID, data)
	return nil
}

func (p *ProgramEmulator) createNote(ix models.Instruction) error {
	if err := requireAccounts(ix, 3); err != nil {
		return err
	}
	cmd, err := p.codec.DecodeCreateNote(ix.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	user, note := ix.Accounts[0].Address, ix.Accounts[1].Address
	want, _, err := p.deriver.Note(user, cmd.Timestamp)
	if err != nil {
		return err
	}
	if err := p.expectAddress("note", note, want); err != nil {
		return err
	}
	if p.exists(note) {
		return fmt.Errorf("%w: note %s", ErrAccountExists, note)
	}
	data, err := p.codec.EncodeNoteAccount(models.Note{Creator: user, Ciphertext: cmd.Ciphertext, Nonce: cmd.Nonce})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	p.ledger.Put(note, p.deriver.ProgramID, data)
	return nil
}

func (p *ProgramEmulator) updateNote(ix models.Instruction) error {
	if err := requireAccounts(ix, 2); err != nil {
		return err
	}
	cmd, err := p.codec.DecodeUpdateNote(ix.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	user, address := ix.Accounts[0].Address, ix.Accounts[1].Address
	if _, err := p.ownedNote(user, address); err != nil {
		return err
	}
	data, err := p.codec.EncodeNoteAccount(models.Note{Creator: user, Ciphertext: cmd.Ciphertext, Nonce: cmd.Nonce})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	p.ledger.Put(address, p.deriver.ProgramID, data)
	return nil
}

func (p *ProgramEmulator) deleteNote(ix models.Instruction) error {
	if err := requireAccounts(ix, 2); err != nil {
		return err
	}
	if err := p.codec.DecodeDeleteNote(ix.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	user, address := ix.Accounts[0].Address, ix.Accounts[1].Address
	if _, err := p.ownedNote(user, address); err != nil {
		return err
	}
	p.ledger.Delete(address)
	return nil
}

func (p *ProgramEmulator) sendMessage(ix models.Instruction) error {
	if err := requireAccounts(ix, 5); err != nil {
		return err
	}
	cmd, err := p.codec.DecodeSendMessage(ix.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	sender := ix.Accounts[0].Address
	recipient := ix.Accounts[1].Address
	recipientProfile := ix.Accounts[2].Address
	message := ix.Accounts[3].Address

	wantProfile, _, err := p.deriver.Profile(recipient)
	if err != nil {
		return err
	}
	if err := p.expectAddress("recipient profile", recipientProfile, wantProfile); err != nil {
		return err
	}
	if !p.exists(recipientProfile) {
		return fmt.Errorf("%w: recipient profile %s", ErrAccountNotFound, recipientProfile)
	}
	wantMessage, _, err := p.deriver.Message(sender, recipient, cmd.Timestamp)
	if err != nil {
		return err
	}
	if err := p.expectAddress("message", message, wantMessage); err != nil {
		return err
	}
	if p.exists(message) {
		return fmt.Errorf("%w: message %s", ErrAccountExists, message)
	}
	data, err := p.codec.EncodeMessageAccount(models.Message{
		From:               sender,
		To:                 recipient,
		Timestamp:          cmd.Timestamp,
		EphemeralPublicKey: cmd.EphemeralPublicKey,
		Nonce:              cmd.Nonce,
		Ciphertext:         cmd.Ciphertext,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
	}
	p.ledger.Put(message, p.deriver.ProgramID, data)
	return nil
}

func (p *ProgramEmulator) ownedNote(user, address models.Address) (models.Note, error) {
	data, ok := p.ledger.get(address)
	if !ok {
		return models.Note{}, fmt.Errorf("%w: note %s", ErrAccountNotFound, address)
	}
	note, err := p.codec.DecodeNote(data)
	if err != nil {
		return models.Note{}, err
	}
	if note.Creator != user {
		return models.Note{}, fmt.Errorf("%w: note %s", ErrUnauthorized, address)
	}
	return note, nil
}

func (p *ProgramEmulator) exists(address models.Address) bool {
	_, ok := p.ledger.get(address)
	return ok
}

func (p *ProgramEmulator) expectAddress(name string, got, want models.Address) error {
	if got != want {
		return fmt.Errorf("%w: %s account %s does not match derived %s", ErrInvalidInstruction, name, got, want)
	}
	return nil
}

func requireAccounts(ix models.Instruction, n int) error {
	if len(ix.Accounts) != n {
		return fmt.Errorf("%w: expected %d accounts, got %d", ErrInvalidInstruction, n, len(ix.Accounts))
	}
	return nil
}
