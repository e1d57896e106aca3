package pda

import (
	"bytes"
	"errors"
	"testing"

	"cipher-ledger/go-client/pkg/models"
)

var testProgramID = models.MustParseAddress("CPHRneHpHq6HcBKAqVcSy4bCkL6Y3BBQnLN9qQ4itQMC")

func sequentialAddress(start byte) models.Address {
	var a models.Address
	for i := range a {
		a[i] = start + byte(i)
	}
	return a
}

func TestDeriveKnownAddresses(t *testing.T) {
	d := New(testProgramID)
	wallet := sequentialAddress(1)
	recipient := sequentialAddress(101)
	const ts = int64(1700000000)

	cases := []struct {
		name     string
		derive   func() (models.Address, uint8, error)
		wantAddr string
		wantBump uint8
	}{
		{
			name:     "profile",
			derive:   func() (models.Address, uint8, error) { return d.Profile(wallet) },
			wantAddr: "AR6qBA8dEXQ9kdVQx8izgxhtdmwXqBiWRU77covQpgWt",
			wantBump: 255,
		},
		{
			name:     "note",
			derive:   func() (models.Address, uint8, error) { return d.Note(wallet, ts) },
			wantAddr: "AT9vtP5Kc5FcBpjRJABdBFozPeLVjBSA1pBr4561o6Hx",
			wantBump: 254,
		},
		{
			name:     "message",
			derive:   func() (models.Address, uint8, error) { return d.Message(wallet, recipient, ts) },
			wantAddr: "Wny8oCHCQtz8ob31Fr5CsvnB8Srm8UsiaSBKxTJEyPQ",
			wantBump: 254,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			addr, bump, err := tc.derive()
			if err != nil {
				t.Fatalf("derive failed: %v", err)
			}
			if addr.String() != tc.wantAddr {
				t.Fatalf("unexpected address: got %s want %s", addr, tc.wantAddr)
			}
			if bump != tc.wantBump {
				t.Fatalf("unexpected bump: got %d want %d", bump, tc.wantBump)
			}
			if IsOnCurve(addr[:]) {
				t.Fatal("derived address must be off curve")
			}
		})
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	wallet := sequentialAddress(7)
	a1, b1, err := New(testProgramID).Profile(wallet)
	if err != nil {
		t.Fatalf("first derive failed: %v", err)
	}
	a2, b2, err := New(testProgramID).Profile(wallet)
	if err != nil {
		t.Fatalf("second derive failed: %v", err)
	}
	if a1 != a2 || b1 != b2 {
		t.Fatalf("derivation not stable: %s/%d vs %s/%d", a1, b1, a2, b2)
	}
}

func TestDeriveChangesWithAnySeedByte(t *testing.T) {
	d := New(testProgramID)
	sender := sequentialAddress(1)
	recipient := sequentialAddress(50)
	base, _, err := d.Message(sender, recipient, 42)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	for i := 0; i < models.AddressSize; i++ {
		mutated := sender
		mutated[i] ^= 0x01
		got, _, err := d.Message(mutated, recipient, 42)
		if err != nil {
			t.Fatalf("derive failed at byte %d: %v", i, err)
		}
		if got == base {
			t.Fatalf("flipping sender byte %d did not change the address", i)
		}
	}
	other, _, err := d.Message(sender, recipient, 43)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	if other == base {
		t.Fatal("timestamp change must change the address")
	}
	otherProgram, _, err := New(sequentialAddress(9)).Message(sender, recipient, 42)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	if otherProgram == base {
		t.Fatal("program id change must change the address")
	}
}

func TestMessageAddressCollidesForSameTimestamp(t *testing.T) {
	d := New(testProgramID)
	a, b := sequentialAddress(1), sequentialAddress(2)
	first, _, err := d.Message(a, b, 1000)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	second, _, err := d.Message(a, b, 1000)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	if first != second {
		t.Fatal("same (sender, recipient, timestamp) must map to the same address")
	}
}

func TestDeriveRejectsOversizedSeed(t *testing.T) {
	d := New(testProgramID)
	_, _, err := d.Derive(PurposeNote, bytes.Repeat([]byte{1}, MaxSeedLength+1))
	if !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
	if _, _, err := d.Derive(string(bytes.Repeat([]byte{'p'}, MaxSeedLength+1))); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed for oversized purpose, got %v", err)
	}
}

func TestDeriveRejectsTooManySeeds(t *testing.T) {
	seeds := make([][]byte, MaxSeeds-1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	if _, _, err := New(testProgramID).Derive(PurposeNote, seeds...); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestDeriveFailsWhenEveryBumpIsOnCurve(t *testing.T) {
	d := &Deriver{ProgramID: testProgramID, OnCurve: func([]byte) bool { return true }}
	if _, _, err := d.Profile(sequentialAddress(1)); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestCreateAddressMatchesDerivedBump(t *testing.T) {
	d := New(testProgramID)
	wallet := sequentialAddress(3)
	addr, bump, err := d.Profile(wallet)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	got, err := d.CreateAddress(PurposeProfile, bump, wallet[:])
	if err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	if got != addr {
		t.Fatalf("create address mismatch: %s vs %s", got, addr)
	}
}

func TestTimestampSeedIsSignedLittleEndian(t *testing.T) {
	if got := TimestampSeed(1); !bytes.Equal(got, []byte{1, 0, 0, 0, 0, 0, 0, 0}) {
		t.Fatalf("unexpected encoding: %v", got)
	}
	if got := TimestampSeed(-1); !bytes.Equal(got, bytes.Repeat([]byte{0xff}, 8)) {
		t.Fatalf("unexpected negative encoding: %v", got)
	}
}
