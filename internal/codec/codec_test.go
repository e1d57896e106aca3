package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"cipher-ledger/go-client/pkg/models"
)

func filled32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b + byte(i)
	}
	return out
}

func filledNonce(b byte) [models.NonceSize]byte {
	var out [models.NonceSize]byte
	for i := range out {
		out[i] = b ^ byte(i)
	}
	return out
}

func TestRegisterLayoutAndRoundTrip(t *testing.T) {
	c := Default()
	cmd := RegisterCommand{EncryptionPublicKey: filled32(0x40)}
	data := c.EncodeRegister(cmd)
	if len(data) != 40 {
		t.Fatalf("unexpected register size: %d", len(data))
	}
	if !bytes.Equal(data[:8], DefaultDiscriminators.Register[:]) {
		t.Fatalf("unexpected discriminator: %x", data[:8])
	}
	if !bytes.Equal(data[8:], cmd.EncryptionPublicKey[:]) {
		t.Fatal("encryption key must follow the discriminator")
	}
	got, err := c.DecodeRegister(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != cmd {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCreateNoteLayoutAndRoundTrip(t *testing.T) {
	c := Default()
	cmd := CreateNoteCommand{Ciphertext: []byte{9, 8, 7, 6, 5}, Nonce: filledNonce(3), Timestamp: -1700000000}
	data, err := c.EncodeCreateNote(cmd)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(data) != 8+4+5+24+8 {
		t.Fatalf("unexpected size: %d", len(data))
	}
	if binary.LittleEndian.Uint32(data[8:12]) != 5 {
		t.Fatalf("unexpected length prefix: %x", data[8:12])
	}
	if !bytes.Equal(data[12:17], cmd.Ciphertext) {
		t.Fatal("ciphertext must follow the length prefix")
	}
	if !bytes.Equal(data[17:41], cmd.Nonce[:]) {
		t.Fatal("nonce must follow the ciphertext")
	}
	if int64(binary.LittleEndian.Uint64(data[41:])) != cmd.Timestamp {
		t.Fatal("timestamp must be the trailing signed little-endian field")
	}
	got, err := c.DecodeCreateNote(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, cmd) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCreateNoteEmptyCiphertext(t *testing.T) {
	c := Default()
	data, err := c.EncodeCreateNote(CreateNoteCommand{Nonce: filledNonce(1), Timestamp: 5})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(data) != 8+4+24+8 {
		t.Fatalf("empty ciphertext must add no bytes, size=%d", len(data))
	}
	if binary.LittleEndian.Uint32(data[8:12]) != 0 {
		t.Fatal("length prefix must be zero")
	}
	got, err := c.DecodeCreateNote(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(got.Ciphertext) != 0 || got.Timestamp != 5 {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestUpdateNoteRoundTrip(t *testing.T) {
	c := Default()
	cmd := UpdateNoteCommand{Ciphertext: bytes.Repeat([]byte{0xcc}, 100), Nonce: filledNonce(9)}
	data, err := c.EncodeUpdateNote(cmd)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(data) != 8+4+100+24 {
		t.Fatalf("unexpected size: %d", len(data))
	}
	got, err := c.DecodeUpdateNote(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, cmd) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestDeleteNoteIsDiscriminatorOnly(t *testing.T) {
	c := Default()
	data := c.EncodeDeleteNote()
	if !bytes.Equal(data, DefaultDiscriminators.DeleteNote[:]) {
		t.Fatalf("unexpected delete payload: %x", data)
	}
	if err := c.DecodeDeleteNote(data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := c.DecodeDeleteNote(append(data, 0)); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected trailing byte to be rejected, got %v", err)
	}
}

func TestSendMessageLayoutAndRoundTrip(t *testing.T) {
	c := Default()
	cmd := SendMessageCommand{
		Ciphertext:         []byte("sealed"),
		Nonce:              filledNonce(0x11),
		EphemeralPublicKey: filled32(0x70),
		Timestamp:          1700000123,
	}
	data, err := c.EncodeSendMessage(cmd)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	ct := len(cmd.Ciphertext)
	if len(data) != 8+4+ct+24+32+8 {
		t.Fatalf("unexpected size: %d", len(data))
	}
	if !bytes.Equal(data[12+ct+24:12+ct+24+32], cmd.EphemeralPublicKey[:]) {
		t.Fatal("ephemeral key must follow the nonce")
	}
	got, err := c.DecodeSendMessage(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, cmd) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCommandDecodersRejectWrongDiscriminator(t *testing.T) {
	c := Default()
	data := c.EncodeRegister(RegisterCommand{})
	if _, err := c.DecodeSendMessage(data); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if _, err := c.DecodeRegister(data[:5]); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected short buffer to fail, got %v", err)
	}
}

func TestInstructionKindClassification(t *testing.T) {
	c := Default()
	update, err := c.EncodeUpdateNote(UpdateNoteCommand{})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if kind, ok := c.InstructionKind(update); !ok || kind != InstructionUpdateNote {
		t.Fatalf("unexpected kind: %v %v", kind, ok)
	}
	if _, ok := c.InstructionKind([]byte{1, 2}); ok {
		t.Fatal("short buffer must not classify")
	}
}

func TestCustomDiscriminatorsAreUsed(t *testing.T) {
	custom := DefaultDiscriminators
	custom.DeleteNote = Discriminator{1, 2, 3, 4, 5, 6, 7, 8}
	c, err := New(custom)
	if err != nil {
		t.Fatalf("new codec failed: %v", err)
	}
	if !bytes.Equal(c.EncodeDeleteNote(), custom.DeleteNote[:]) {
		t.Fatal("codec must encode with the injected table")
	}
	if err := Default().DecodeDeleteNote(c.EncodeDeleteNote()); err == nil {
		t.Fatal("a codec on another table must reject the command")
	}
}
