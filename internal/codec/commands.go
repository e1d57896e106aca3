package codec

import (
	"fmt"

	"cipher-ledger/go-client/pkg/models"
)

type RegisterCommand struct {
	EncryptionPublicKey [models.PublicKeySize]byte
}

type CreateNoteCommand struct {
	Ciphertext []byte
	Nonce      [models.NonceSize]byte
	Timestamp  int64
}

type UpdateNoteCommand struct {
	Ciphertext []byte
	Nonce      [models.NonceSize]byte
}

type SendMessageCommand struct {
	Ciphertext         []byte
	Nonce              [models.NonceSize]byte
	EphemeralPublicKey [models.PublicKeySize]byte
	Timestamp          int64
}

// [disc:8][encPubkey:32]
func (c *Codec) EncodeRegister(cmd RegisterCommand) []byte {
	w := NewWriter("register", DiscriminatorSize+models.PublicKeySize)
	w.PutFixed(c.disc.Register[:])
	w.PutFixed(cmd.EncryptionPublicKey[:])
	out, _ := w.Bytes()
	return out
}

// [disc:8][ctLen:u32][ciphertext][nonce:24][timestamp:i64]
func (c *Codec) EncodeCreateNote(cmd CreateNoteCommand) ([]byte, error) {
	w := NewWriter("create_note", DiscriminatorSize+4+len(cmd.Ciphertext)+models.NonceSize+8)
	w.PutFixed(c.disc.CreateNote[:])
	w.PutLengthPrefixed("ciphertext", cmd.Ciphertext)
	w.PutFixed(cmd.Nonce[:])
	w.PutI64(cmd.Timestamp)
	return w.Bytes()
}

// [disc:8][ctLen:u32][ciphertext][nonce:24]
func (c *Codec) EncodeUpdateNote(cmd UpdateNoteCommand) ([]byte, error) {
	w := NewWriter("update_note", DiscriminatorSize+4+len(cmd.Ciphertext)+models.NonceSize)
	w.PutFixed(c.disc.UpdateNote[:])
	w.PutLengthPrefixed("ciphertext", cmd.Ciphertext)
	w.PutFixed(cmd.Nonce[:])
	return w.Bytes()
}

// [disc:8]
func (c *Codec) EncodeDeleteNote() []byte {
	return append([]byte(nil), c.disc.DeleteNote[:]...)
}

// [disc:8][ctLen:u32][ciphertext][nonce:24][ephemeralPubkey:32][timestamp:i64]
func (c *Codec) EncodeSendMessage(cmd SendMessageCommand) ([]byte, error) {
	w := NewWriter("send_message", DiscriminatorSize+4+len(cmd.Ciphertext)+models.NonceSize+models.PublicKeySize+8)
	w.PutFixed(c.disc.SendMessage[:])
	w.PutLengthPrefixed("ciphertext", cmd.Ciphertext)
	w.PutFixed(cmd.Nonce[:])
	w.PutFixed(cmd.EphemeralPublicKey[:])
	w.PutI64(cmd.Timestamp)
	return w.Bytes()
}

// InstructionKind classifies a command buffer by its discriminator.
func (c *Codec) InstructionKind(data []byte) (InstructionKind, bool) {
	if len(data) < DiscriminatorSize {
		return 0, false
	}
	var tag Discriminator
	copy(tag[:], data[:DiscriminatorSize])
	for _, kind := range []InstructionKind{InstructionRegister, InstructionCreateNote, InstructionUpdateNote, InstructionDeleteNote, InstructionSendMessage} {
		if want, _ := c.disc.Instruction(kind); want == tag {
			return kind, true
		}
	}
	return 0, false
}

func (c *Codec) DecodeRegister(data []byte) (RegisterCommand, error) {
	var cmd RegisterCommand
	cur, err := c.commandCursor(InstructionRegister, data)
	if err != nil {
		return cmd, err
	}
	if err := cur.ReadInto("encryption_public_key", cmd.EncryptionPublicKey[:]); err != nil {
		return RegisterCommand{}, err
	}
	return cmd, cur.ExpectEnd()
}

func (c *Codec) DecodeCreateNote(data []byte) (CreateNoteCommand, error) {
	var cmd CreateNoteCommand
	cur, err := c.commandCursor(InstructionCreateNote, data)
	if err != nil {
		return cmd, err
	}
	if cmd.Ciphertext, err = cur.ReadLengthPrefixed("ciphertext"); err != nil {
		return CreateNoteCommand{}, err
	}
	if err := cur.ReadInto("nonce", cmd.Nonce[:]); err != nil {
		return CreateNoteCommand{}, err
	}
	if cmd.Timestamp, err = cur.ReadI64("timestamp"); err != nil {
		return CreateNoteCommand{}, err
	}
	return cmd, cur.ExpectEnd()
}

func (c *Codec) DecodeUpdateNote(data []byte) (UpdateNoteCommand, error) {
	var cmd UpdateNoteCommand
	cur, err := c.commandCursor(InstructionUpdateNote, data)
	if err != nil {
		return cmd, err
	}
	if cmd.Ciphertext, err = cur.ReadLengthPrefixed("ciphertext"); err != nil {
		return UpdateNoteCommand{}, err
	}
	if err := cur.ReadInto("nonce", cmd.Nonce[:]); err != nil {
		return UpdateNoteCommand{}, err
	}
	return cmd, cur.ExpectEnd()
}

func (c *Codec) DecodeDeleteNote(data []byte) error {
	cur, err := c.commandCursor(InstructionDeleteNote, data)
	if err != nil {
		return err
	}
	return cur.ExpectEnd()
}

func (c *Codec) DecodeSendMessage(data []byte) (SendMessageCommand, error) {
	var cmd SendMessageCommand
	cur, err := c.commandCursor(InstructionSendMessage, data)
	if err != nil {
		return cmd, err
	}
	if cmd.Ciphertext, err = cur.ReadLengthPrefixed("ciphertext"); err != nil {
		return SendMessageCommand{}, err
	}
	if err := cur.ReadInto("nonce", cmd.Nonce[:]); err != nil {
		return SendMessageCommand{}, err
	}
	if err := cur.ReadInto("ephemeral_public_key", cmd.EphemeralPublicKey[:]); err != nil {
		return SendMessageCommand{}, err
	}
	if cmd.Timestamp, err = cur.ReadI64("timestamp"); err != nil {
		return SendMessageCommand{}, err
	}
	return cmd, cur.ExpectEnd()
}

// Command buffers carry no addressing context, so unlike records their
// discriminator is checked.
func (c *Codec) commandCursor(kind InstructionKind, data []byte) (*Cursor, error) {
	want, _ := c.disc.Instruction(kind)
	cur := NewCursor(kind.String(), data)
	tag, err := cur.ReadFixed("discriminator", DiscriminatorSize)
	if err != nil {
		return nil, err
	}
	if Discriminator(tag) != want {
		return nil, fmt.Errorf("%w: %s discriminator %x, want %s", ErrMalformedRecord, kind, tag, want)
	}
	return cur, nil
}
