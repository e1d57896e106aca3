package ledger

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sort"
	"sync"

	"cipher-ledger/go-client/pkg/models"
)

type storedAccount struct {
	owner models.Address
	data  []byte
}

// MemoryLedger is an in-process Reader over accounts placed with Put.
type MemoryLedger struct {
	mu       sync.RWMutex
	accounts map[models.Address]storedAccount
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{accounts: make(map[models.Address]storedAccount)}
}

func (m *MemoryLedger) Put(address, owner models.Address, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[address] = storedAccount{owner: owner, data: append([]byte(nil), data...)}
}

func (m *MemoryLedger) Delete(address models.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, address)
}

func (m *MemoryLedger) get(address models.Address) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.accounts[address]
	return acc.data, ok
}

func (m *MemoryLedger) GetAccount(ctx context.Context, address models.Address) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.accounts[address]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), acc.data...), true, nil
}

// GetProgramAccounts returns matches ordered by address.
func (m *MemoryLedger) GetProgramAccounts(ctx context.Context, programID models.Address, filters []models.Filter) ([]KeyedAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]KeyedAccount, 0)
	for addr, acc := range m.accounts {
		if acc.owner != programID || !models.MatchesAll(filters, acc.data) {
			continue
		}
		out = append(out, KeyedAccount{Address: addr, Data: append([]byte(nil), acc.data...)})
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Address[:], out[j].Address[:]) < 0
	})
	return out, nil
}

// RecordingSubmitter keeps submitted instructions instead of sending them.
type RecordingSubmitter struct {
	mu           sync.Mutex
	instructions []models.Instruction
	// Err, when set, is returned after signer validation.
	Err error
}

func (r *RecordingSubmitter) Submit(ctx context.Context, ix models.Instruction, signers ...ed25519.PrivateKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CheckSigners(ix, signers); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.instructions = append(r.instructions, ix)
	return nil
}

func (r *RecordingSubmitter) Instructions() []models.Instruction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Instruction(nil), r.instructions...)
}
