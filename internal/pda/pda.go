// Package pda derives deterministic record addresses from seed material and
// a program identifier.
package pda

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"cipher-ledger/go-client/pkg/models"

	"filippo.io/edwards25519"
)

const (
	MaxSeedLength = 32
	MaxSeeds      = 16

	PurposeProfile = "profile"
	PurposeNote    = "note"
	PurposeMessage = "message"

	addressMarker = "ProgramDerivedAddress"
)

var ErrInvalidSeed = errors.New("invalid seed")

// Deriver computes program-derived addresses for one program.
// OnCurve reports whether a 32-byte candidate is a valid ed25519 point; nil
// selects the edwards25519 decoder.
type Deriver struct {
	ProgramID models.Address
	OnCurve   func([]byte) bool
}

func New(programID models.Address) *Deriver {
	return &Deriver{ProgramID: programID}
}

// Derive searches bumps from 255 down to 0 and returns the first off-curve
// candidate for purpose followed by seeds.
func (d *Deriver) Derive(purpose string, seeds ...[]byte) (models.Address, uint8, error) {
	parts := make([][]byte, 0, len(seeds)+1)
	parts = append(parts, []byte(purpose))
	parts = append(parts, seeds...)
	if err := checkSeeds(parts); err != nil {
		return models.Address{}, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		addr, ok := d.candidate(parts, uint8(bump))
		if ok {
			return addr, uint8(bump), nil
		}
	}
	return models.Address{}, 0, fmt.Errorf("%w: no off-curve address for purpose %q", ErrInvalidSeed, purpose)
}

// CreateAddress checks a single known bump, as the program does when a bump
// is passed in instead of searched for.
func (d *Deriver) CreateAddress(purpose string, bump uint8, seeds ...[]byte) (models.Address, error) {
	parts := make([][]byte, 0, len(seeds)+1)
	parts = append(parts, []byte(purpose))
	parts = append(parts, seeds...)
	if err := checkSeeds(parts); err != nil {
		return models.Address{}, err
	}
	addr, ok := d.candidate(parts, bump)
	if !ok {
		return models.Address{}, fmt.Errorf("%w: bump %d lands on curve", ErrInvalidSeed, bump)
	}
	return addr, nil
}

func (d *Deriver) Profile(wallet models.Address) (models.Address, uint8, error) {
	return d.Derive(PurposeProfile, wallet[:])
}

func (d *Deriver) Note(creator models.Address, timestamp int64) (models.Address, uint8, error) {
	return d.Derive(PurposeNote, creator[:], TimestampSeed(timestamp))
}

// Message addresses collide when the same sender writes to the same recipient
// twice with one timestamp; callers pick unique timestamps per pair.
func (d *Deriver) Message(sender, recipient models.Address, timestamp int64) (models.Address, uint8, error) {
	return d.Derive(PurposeMessage, sender[:], recipient[:], TimestampSeed(timestamp))
}

// TimestampSeed is the 8-byte signed little-endian form the codec also writes.
func TimestampSeed(timestamp int64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, uint64(timestamp))
	return out
}

func (d *Deriver) candidate(parts [][]byte, bump uint8) (models.Address, bool) {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write(d.ProgramID[:])
	_, _ = h.Write([]byte(addressMarker))
	var out models.Address
	copy(out[:], h.Sum(nil))
	if d.onCurve(out[:]) {
		return models.Address{}, false
	}
	return out, true
}

func (d *Deriver) onCurve(b []byte) bool {
	if d.OnCurve != nil {
		return d.OnCurve(b)
	}
	return IsOnCurve(b)
}

// IsOnCurve reports whether b decodes to an ed25519 point.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

func checkSeeds(parts [][]byte) error {
	// The bump byte occupies one of the program's seed slots.
	if len(parts) > MaxSeeds-1 {
		return fmt.Errorf("%w: %d seed parts exceed limit %d", ErrInvalidSeed, len(parts), MaxSeeds-1)
	}
	for i, p := range parts {
		if len(p) > MaxSeedLength {
			return fmt.Errorf("%w: seed %d is %d bytes, limit %d", ErrInvalidSeed, i, len(p), MaxSeedLength)
		}
	}
	return nil
}
