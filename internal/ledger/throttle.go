package ledger

import (
	"context"

	"cipher-ledger/go-client/internal/platform/ratelimiter"
	"cipher-ledger/go-client/pkg/models"
)

const (
	opGetAccount         = "get_account"
	opGetProgramAccounts = "get_program_accounts"
)

// ThrottledReader waits on a per-operation token bucket before each read.
type ThrottledReader struct {
	next    Reader
	limiter *ratelimiter.MapLimiter
}

// NewThrottledReader returns next unchanged when limiter is nil.
func NewThrottledReader(next Reader, limiter *ratelimiter.MapLimiter) Reader {
	if limiter == nil {
		return next
	}
	return &ThrottledReader{next: next, limiter: limiter}
}

func (t *ThrottledReader) GetAccount(ctx context.Context, address models.Address) ([]byte, bool, error) {
	if err := t.limiter.Wait(ctx, opGetAccount); err != nil {
		return nil, false, err
	}
	return t.next.GetAccount(ctx, address)
}

func (t *ThrottledReader) GetProgramAccounts(ctx context.Context, programID models.Address, filters []models.Filter) ([]KeyedAccount, error) {
	if err := t.limiter.Wait(ctx, opGetProgramAccounts); err != nil {
		return nil, err
	}
	return t.next.GetProgramAccounts(ctx, programID, filters)
}
