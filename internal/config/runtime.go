package config

import (
	"io"
	"log/slog"
	"time"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/internal/platform/privacylog"
	"cipher-ledger/go-client/internal/platform/ratelimiter"
)

const readLimiterIdleTTL = 10 * time.Minute

func (c Config) Codec() (*codec.Codec, error) {
	return codec.New(c.Discriminators)
}

// ReadLimiter is nil, meaning unthrottled, when RPS or Burst is zero.
func (c Config) ReadLimiter() *ratelimiter.MapLimiter {
	return ratelimiter.New(c.ReadRateLimit.RPS, c.ReadRateLimit.Burst, readLimiterIdleTTL)
}

// Logger writes JSON logs through the privacy sanitizer.
func (c Config) Logger(w io.Writer) *slog.Logger {
	base := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel})
	return slog.New(privacylog.WrapHandler(base))
}
