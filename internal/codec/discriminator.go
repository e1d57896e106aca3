package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const DiscriminatorSize = 8

type Discriminator [DiscriminatorSize]byte

func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}

func ParseDiscriminator(s string) (Discriminator, error) {
	var d Discriminator
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return d, fmt.Errorf("parse discriminator %q: %w", s, err)
	}
	if len(raw) != DiscriminatorSize {
		return d, fmt.Errorf("parse discriminator %q: need %d bytes, got %d", s, DiscriminatorSize, len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

type AccountKind int

const (
	AccountProfile AccountKind = iota + 1
	AccountNote
	AccountMessage
)

var accountNames = map[AccountKind]string{
	AccountProfile: "Profile",
	AccountNote:    "Note",
	AccountMessage: "Message",
}

func (k AccountKind) String() string {
	if name, ok := accountNames[k]; ok {
		return strings.ToLower(name)
	}
	return "unknown"
}

type InstructionKind int

const (
	InstructionRegister InstructionKind = iota + 1
	InstructionCreateNote
	InstructionUpdateNote
	InstructionDeleteNote
	InstructionSendMessage
)

var instructionNames = map[InstructionKind]string{
	InstructionRegister:    "register",
	InstructionCreateNote:  "create_note",
	InstructionUpdateNote:  "update_note",
	InstructionDeleteNote:  "delete_note",
	InstructionSendMessage: "send_message",
}

func (k InstructionKind) String() string {
	if name, ok := instructionNames[k]; ok {
		return name
	}
	return "unknown"
}

// Discriminators is one protocol build's tag table. Changing a value breaks
// compatibility with data already stored under the old tag.
type Discriminators struct {
	Profile Discriminator
	Note    Discriminator
	Message Discriminator

	Register    Discriminator
	CreateNote  Discriminator
	UpdateNote  Discriminator
	DeleteNote  Discriminator
	SendMessage Discriminator
}

var DefaultDiscriminators = Discriminators{
	Profile: Discriminator{184, 101, 165, 188, 95, 63, 127, 188},
	Note:    Discriminator{203, 75, 252, 196, 81, 210, 122, 126},
	Message: Discriminator{110, 151, 23, 110, 198, 6, 125, 181},

	Register:    Discriminator{211, 124, 67, 15, 211, 194, 178, 240},
	CreateNote:  Discriminator{103, 2, 208, 242, 86, 156, 151, 107},
	UpdateNote:  Discriminator{103, 129, 251, 34, 33, 154, 210, 148},
	DeleteNote:  Discriminator{182, 211, 115, 229, 163, 88, 108, 217},
	SendMessage: Discriminator{57, 40, 34, 178, 189, 10, 65, 26},
}

// AnchorDiscriminators derives the table from sha256("account:<Name>") and
// sha256("global:<snake_name>") prefixes.
func AnchorDiscriminators() Discriminators {
	return Discriminators{
		Profile: anchorTag("account:" + accountNames[AccountProfile]),
		Note:    anchorTag("account:" + accountNames[AccountNote]),
		Message: anchorTag("account:" + accountNames[AccountMessage]),

		Register:    anchorTag("global:" + instructionNames[InstructionRegister]),
		CreateNote:  anchorTag("global:" + instructionNames[InstructionCreateNote]),
		UpdateNote:  anchorTag("global:" + instructionNames[InstructionUpdateNote]),
		DeleteNote:  anchorTag("global:" + instructionNames[InstructionDeleteNote]),
		SendMessage: anchorTag("global:" + instructionNames[InstructionSendMessage]),
	}
}

func anchorTag(preimage string) Discriminator {
	sum := sha256.Sum256([]byte(preimage))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

func (d Discriminators) Account(kind AccountKind) (Discriminator, bool) {
	switch kind {
	case AccountProfile:
		return d.Profile, true
	case AccountNote:
		return d.Note, true
	case AccountMessage:
		return d.Message, true
	default:
		return Discriminator{}, false
	}
}

func (d Discriminators) Instruction(kind InstructionKind) (Discriminator, bool) {
	switch kind {
	case InstructionRegister:
		return d.Register, true
	case InstructionCreateNote:
		return d.CreateNote, true
	case InstructionUpdateNote:
		return d.UpdateNote, true
	case InstructionDeleteNote:
		return d.DeleteNote, true
	case InstructionSendMessage:
		return d.SendMessage, true
	default:
		return Discriminator{}, false
	}
}

// Validate rejects zero tags and duplicates within the account or the
// instruction set.
func (d Discriminators) Validate() error {
	accounts := []Discriminator{d.Profile, d.Note, d.Message}
	instructions := []Discriminator{d.Register, d.CreateNote, d.UpdateNote, d.DeleteNote, d.SendMessage}
	if err := checkDistinct("account", accounts); err != nil {
		return err
	}
	return checkDistinct("instruction", instructions)
}

func checkDistinct(set string, tags []Discriminator) error {
	seen := make(map[Discriminator]struct{}, len(tags))
	for _, tag := range tags {
		if tag == (Discriminator{}) {
			return errors.New(set + " discriminator must not be zero")
		}
		if _, dup := seen[tag]; dup {
			return fmt.Errorf("duplicate %s discriminator %s", set, tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}
