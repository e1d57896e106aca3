// Package codec encodes program commands and decodes stored records using the
// exact little-endian layouts the ledger program expects.
package codec

import (
	"fmt"

	"cipher-ledger/go-client/pkg/models"
)

const (
	ProfileAccountSize = DiscriminatorSize + models.AddressSize + models.PublicKeySize + 8
	NoteFixedSize      = DiscriminatorSize + models.AddressSize + 4 + models.NonceSize
	MessageFixedSize   = DiscriminatorSize + 2*models.AddressSize + 8 + models.PublicKeySize + models.NonceSize + 4

	OffsetKind        = 0
	OffsetNoteCreator = DiscriminatorSize
	OffsetMessageFrom = DiscriminatorSize
	OffsetMessageTo   = DiscriminatorSize + models.AddressSize
)

// Codec binds the layouts to one discriminator table.
type Codec struct {
	disc Discriminators
}

func New(d Discriminators) (*Codec, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return &Codec{disc: d}, nil
}

func Default() *Codec {
	return &Codec{disc: DefaultDiscriminators}
}

func (c *Codec) Discriminators() Discriminators {
	return c.disc
}

// Kind classifies data by its leading account discriminator.
func (c *Codec) Kind(data []byte) (AccountKind, bool) {
	if len(data) < DiscriminatorSize {
		return 0, false
	}
	var tag Discriminator
	copy(tag[:], data[:DiscriminatorSize])
	switch tag {
	case c.disc.Profile:
		return AccountProfile, true
	case c.disc.Note:
		return AccountNote, true
	case c.disc.Message:
		return AccountMessage, true
	default:
		return 0, false
	}
}

func (c *Codec) NotesByCreator(creator models.Address) []models.Filter {
	return []models.Filter{
		{Offset: OffsetKind, Bytes: c.disc.Note[:]},
		{Offset: OffsetNoteCreator, Bytes: creator.Bytes()},
	}
}

func (c *Codec) MessagesByRecipient(recipient models.Address) []models.Filter {
	return []models.Filter{
		{Offset: OffsetKind, Bytes: c.disc.Message[:]},
		{Offset: OffsetMessageTo, Bytes: recipient.Bytes()},
	}
}

func (c *Codec) MessagesBySender(sender models.Address) []models.Filter {
	return []models.Filter{
		{Offset: OffsetKind, Bytes: c.disc.Message[:]},
		{Offset: OffsetMessageFrom, Bytes: sender.Bytes()},
	}
}
