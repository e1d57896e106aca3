package ledger

import (
	"context"
	"crypto/ed25519"
	"errors"
	"testing"
	"time"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/internal/pda"
	"cipher-ledger/go-client/pkg/models"
)

var emulatorProgram = models.MustParseAddress("CPHRneHpHq6HcBKAqVcSy4bCkL6Y3BBQnLN9qQ4itQMC")

func newTestEmulator() (*ProgramEmulator, *MemoryLedger, *codec.Codec, *pda.Deriver) {
	l := NewMemoryLedger()
	c := codec.Default()
	d := pda.New(emulatorProgram)
	e := NewProgramEmulator(l, c, d).WithClock(func() time.Time { return time.Unix(1700000000, 0) })
	return e, l, c, d
}

func walletKey(fill byte) (ed25519.PrivateKey, models.Address) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	key := ed25519.NewKeyFromSeed(seed)
	var addr models.Address
	copy(addr[:], key.Public().(ed25519.PublicKey))
	return key, addr
}

func registerIx(t *testing.T, c *codec.Codec, d *pda.Deriver, user models.Address, encKey byte) models.Instruction {
	t.Helper()
	profile, _, err := d.Profile(user)
	if err != nil {
		t.Fatalf("derive profile failed: %v", err)
	}
	var pub [32]byte
	pub[0] = encKey
	return models.Instruction{
		ProgramID: d.ProgramID,
		Accounts: []models.AccountMeta{
			{Address: user, IsSigner: true, IsWritable: true},
			{Address: profile, IsWritable: true},
			{Address: models.SystemProgramID},
		},
		Data: c.EncodeRegister(codec.RegisterCommand{EncryptionPublicKey: pub}),
	}
}

func TestEmulatorRegisterCreatesProfileOnce(t *testing.T) {
	e, l, c, d := newTestEmulator()
	key, user := walletKey(1)
	ix := registerIx(t, c, d, user, 9)

	if err := e.Submit(context.Background(), ix, key); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	data, ok, err := l.GetAccount(context.Background(), ix.Accounts[1].Address)
	if err != nil || !ok {
		t.Fatalf("expected profile account, ok=%v err=%v", ok, err)
	}
	profile, err := c.DecodeProfile(data)
	if err != nil {
		t.Fatalf("decode profile failed: %v", err)
	}
	if profile.Wallet != user || profile.EncryptionPublicKey[0] != 9 || profile.CreatedAt != 1700000000 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if err := e.Submit(context.Background(), ix, key); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestEmulatorRejectsForeignProgramAndBadAddress(t *testing.T) {
	e, _, c, d := newTestEmulator()
	key, user := walletKey(1)

	ix := registerIx(t, c, d, user, 1)
	ix.ProgramID = models.Address{7}
	if err := e.Submit(context.Background(), ix, key); !errors.Is(err, ErrWrongProgram) {
		t.Fatalf("expected ErrWrongProgram, got %v", err)
	}

	ix = registerIx(t, c, d, user, 1)
	ix.Accounts[1].Address = models.Address{8}
	if err := e.Submit(context.Background(), ix, key); !errors.Is(err, ErrInvalidInstruction) {
		t.Fatalf("expected ErrInvalidInstruction, got %v", err)
	}

	ix = registerIx(t, c, d, user, 1)
	if err := e.Submit(context.Background(), ix); !errors.Is(err, ErrMissingSigner) {
		t.Fatalf("expected ErrMissingSigner, got %v", err)
	}
}

func TestEmulatorNoteLifecycleEnforcesOwnership(t *testing.T) {
	e, l, c, d := newTestEmulator()
	ctx := context.Background()
	ownerKey, owner := walletKey(1)
	otherKey, other := walletKey(2)

	noteAddr, _, err := d.Note(owner, 42)
	if err != nil {
		t.Fatalf("derive note failed: %v", err)
	}
	createData, err := c.EncodeCreateNote(codec.CreateNoteCommand{Ciphertext: []byte("sealed"), Timestamp: 42})
	if err != nil {
		t.Fatalf("encode create failed: %v", err)
	}
	create := models.Instruction{
		ProgramID: d.ProgramID,
		Accounts: []models.AccountMeta{
			{Address: owner, IsSigner: true, IsWritable: true},
			{Address: noteAddr, IsWritable: true},
			{Address: models.SystemProgramID},
		},
		Data: createData,
	}
	if err := e.Submit(ctx, create, ownerKey); err != nil {
		t.Fatalf("create note failed: %v", err)
	}

	updateData, err := c.EncodeUpdateNote(codec.UpdateNoteCommand{Ciphertext: []byte("resealed")})
	if err != nil {
		t.Fatalf("encode update failed: %v", err)
	}
	foreign := models.Instruction{
		ProgramID: d.ProgramID,
		Accounts: []models.AccountMeta{
			{Address: other, IsSigner: true, IsWritable: true},
			{Address: noteAddr, IsWritable: true},
		},
		Data: updateData,
	}
	if err := e.Submit(ctx, foreign, otherKey); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	update := foreign
	update.Accounts = []models.AccountMeta{
		{Address: owner, IsSigner: true, IsWritable: true},
		{Address: noteAddr, IsWritable: true},
	}
	if err := e.Submit(ctx, update, ownerKey); err != nil {
		t.Fatalf("update note failed: %v", err)
	}
	data, _, _ := l.GetAccount(ctx, noteAddr)
	note, err := c.DecodeNote(data)
	if err != nil || string(note.Ciphertext) != "resealed" {
		t.Fatalf("expected updated note, got %q err=%v", note.Ciphertext, err)
	}

	del := update
	del.Data = c.EncodeDeleteNote()
	if err := e.Submit(ctx, del, ownerKey); err != nil {
		t.Fatalf("delete note failed: %v", err)
	}
	if _, ok, _ := l.GetAccount(ctx, noteAddr); ok {
		t.Fatal("expected note to be closed")
	}
	if err := e.Submit(ctx, del, ownerKey); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestEmulatorSendMessageRequiresRecipientProfile(t *testing.T) {
	e, l, c, d := newTestEmulator()
	ctx := context.Background()
	senderKey, sender := walletKey(1)
	recipientKey, recipient := walletKey(2)

	profile, _, _ := d.Profile(recipient)
	message, _, _ := d.Message(sender, recipient, 7)
	data, err := c.EncodeSendMessage(codec.SendMessageCommand{Ciphertext: []byte("hi"), Timestamp: 7})
	if err != nil {
		t.Fatalf("encode send failed: %v", err)
	}
	ix := models.Instruction{
		ProgramID: d.ProgramID,
		Accounts: []models.AccountMeta{
			{Address: sender, IsSigner: true, IsWritable: true},
			{Address: recipient},
			{Address: profile},
			{Address: message, IsWritable: true},
			{Address: models.SystemProgramID},
		},
		Data: data,
	}
	if err := e.Submit(ctx, ix, senderKey); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	if err := e.Submit(ctx, registerIx(t, c, d, recipient, 3), recipientKey); err != nil {
		t.Fatalf("register recipient failed: %v", err)
	}
	if err := e.Submit(ctx, ix, senderKey); err != nil {
		t.Fatalf("send message failed: %v", err)
	}
	raw, ok, _ := l.GetAccount(ctx, message)
	if !ok {
		t.Fatal("expected message account")
	}
	got, err := c.DecodeMessage(raw)
	if err != nil {
		t.Fatalf("decode message failed: %v", err)
	}
	if got.From != sender || got.To != recipient || got.Timestamp != 7 || string(got.Ciphertext) != "hi" {
		t.Fatalf("unexpected message: %+v", got)
	}
}
