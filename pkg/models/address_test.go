package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSystemProgramIDRendersAsOnes(t *testing.T) {
	if got := SystemProgramID.String(); got != "11111111111111111111111111111111" {
		t.Fatalf("unexpected system program id: %q", got)
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	const raw = "CPHRneHpHq6HcBKAqVcSy4bCkL6Y3BBQnLN9qQ4itQMC"
	a, err := ParseAddress(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if a.String() != raw {
		t.Fatalf("round trip mismatch: %s", a.String())
	}
	if a.IsZero() {
		t.Fatal("parsed address must not be zero")
	}
}

func TestParseAddressRejectsWrongSize(t *testing.T) {
	if _, err := ParseAddress("3mJr7AoUXx2Wqd"); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	if _, err := ParseAddress("   "); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress for blank input, got %v", err)
	}
	if _, err := ParseAddress("0OIl"); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress for non-base58 input, got %v", err)
	}
}

func TestAddressJSONUsesBase58(t *testing.T) {
	a := MustParseAddress("CPHRneHpHq6HcBKAqVcSy4bCkL6Y3BBQnLN9qQ4itQMC")
	raw, err := json.Marshal(KeyedNote{Address: a})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded KeyedNote
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Address != a {
		t.Fatalf("address mismatch after json: %s", decoded.Address)
	}
}
