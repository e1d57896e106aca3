package codec

import (
	"cipher-ledger/go-client/pkg/models"
)

// Record decoders skip the discriminator without checking it: the caller
// fetched the address and knows the kind. Trailing bytes are ignored because
// accounts may be allocated larger than their content.

// [disc:8][wallet:32][encPubkey:32][createdAt:i64]
func (c *Codec) DecodeProfile(data []byte) (models.Profile, error) {
	var p models.Profile
	if len(data) < ProfileAccountSize {
		return p, malformed("profile", "header", 0, ProfileAccountSize, len(data))
	}
	cur := NewCursor("profile", data)
	if err := cur.Skip("discriminator", DiscriminatorSize); err != nil {
		return p, err
	}
	if err := cur.ReadInto("wallet", p.Wallet[:]); err != nil {
		return models.Profile{}, err
	}
	if err := cur.ReadInto("encryption_public_key", p.EncryptionPublicKey[:]); err != nil {
		return models.Profile{}, err
	}
	createdAt, err := cur.ReadI64("created_at")
	if err != nil {
		return models.Profile{}, err
	}
	p.CreatedAt = createdAt
	return p, nil
}

// [disc:8][creator:32][ctLen:u32][ciphertext:ctLen][nonce:24]
func (c *Codec) DecodeNote(data []byte) (models.Note, error) {
	var n models.Note
	if len(data) < NoteFixedSize {
		return n, malformed("note", "header", 0, NoteFixedSize, len(data))
	}
	cur := NewCursor("note", data)
	if err := cur.Skip("discriminator", DiscriminatorSize); err != nil {
		return n, err
	}
	if err := cur.ReadInto("creator", n.Creator[:]); err != nil {
		return models.Note{}, err
	}
	ciphertext, err := cur.ReadLengthPrefixed("ciphertext")
	if err != nil {
		return models.Note{}, err
	}
	n.Ciphertext = ciphertext
	if err := cur.ReadInto("nonce", n.Nonce[:]); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// [disc:8][from:32][to:32][timestamp:i64][ephemeralPubkey:32][nonce:24][ctLen:u32][ciphertext:ctLen]
func (c *Codec) DecodeMessage(data []byte) (models.Message, error) {
	var m models.Message
	if len(data) < MessageFixedSize {
		return m, malformed("message", "header", 0, MessageFixedSize, len(data))
	}
	cur := NewCursor("message", data)
	if err := cur.Skip("discriminator", DiscriminatorSize); err != nil {
		return m, err
	}
	if err := cur.ReadInto("from", m.From[:]); err != nil {
		return models.Message{}, err
	}
	if err := cur.ReadInto("to", m.To[:]); err != nil {
		return models.Message{}, err
	}
	ts, err := cur.ReadI64("timestamp")
	if err != nil {
		return models.Message{}, err
	}
	m.Timestamp = ts
	if err := cur.ReadInto("ephemeral_public_key", m.EphemeralPublicKey[:]); err != nil {
		return models.Message{}, err
	}
	if err := cur.ReadInto("nonce", m.Nonce[:]); err != nil {
		return models.Message{}, err
	}
	ciphertext, err := cur.ReadLengthPrefixed("ciphertext")
	if err != nil {
		return models.Message{}, err
	}
	m.Ciphertext = ciphertext
	return m, nil
}

// EncodeProfileAccount writes the stored layout the program produces for a profile.
func (c *Codec) EncodeProfileAccount(p models.Profile) []byte {
	w := NewWriter("profile", ProfileAccountSize)
	w.PutFixed(c.disc.Profile[:])
	w.PutFixed(p.Wallet[:])
	w.PutFixed(p.EncryptionPublicKey[:])
	w.PutI64(p.CreatedAt)
	out, _ := w.Bytes()
	return out
}

func (c *Codec) EncodeNoteAccount(n models.Note) ([]byte, error) {
	w := NewWriter("note", NoteFixedSize+len(n.Ciphertext))
	w.PutFixed(c.disc.Note[:])
	w.PutFixed(n.Creator[:])
	w.PutLengthPrefixed("ciphertext", n.Ciphertext)
	w.PutFixed(n.Nonce[:])
	return w.Bytes()
}

func (c *Codec) EncodeMessageAccount(m models.Message) ([]byte, error) {
	w := NewWriter("message", MessageFixedSize+len(m.Ciphertext))
	w.PutFixed(c.disc.Message[:])
	w.PutFixed(m.From[:])
	w.PutFixed(m.To[:])
	w.PutI64(m.Timestamp)
	w.PutFixed(m.EphemeralPublicKey[:])
	w.PutFixed(m.Nonce[:])
	w.PutLengthPrefixed("ciphertext", m.Ciphertext)
	return w.Bytes()
}
