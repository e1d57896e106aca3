// Package privacylog wraps a slog.Handler so wallet addresses never reach logs
// in plain form and key material never reaches them at all.
//
// Attributes are handled by key first: key material is redacted and address
// keys are replaced by a "<key>_fp" fingerprint. Every other string or error
// value is then scanned for base58 tokens that decode to a 32-byte address,
// and each one found is replaced by its fingerprint in place.
package privacylog

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mr-tron/base58"
)

const (
	redactedValue     = "[REDACTED]"
	fingerprintPrefix = "fp_"
	fingerprintSuffix = "_fp"

	addressSize = 32
	// Base58 text of a 32-byte value is 32 to 44 characters long.
	minAddressText = 32
	maxAddressText = 44
	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

type keyRule int

const (
	keepKey keyRule = iota
	redactKey
	fingerprintKey
)

var (
	bootNonce    = randomNonce()
	addressKeys  = []string{"wallet", "address", "recipient", "sender", "creator", "correlation_id"}
	addressTails = []string{"_address", "_wallet"}
	secretParts  = []string{"token", "secret", "mnemonic", "password", "passphrase", "private_key", "authorization"}
)

type SanitizingHandler struct {
	next slog.Handler
}

// WrapHandler returns next unchanged when it already sanitizes.
func WrapHandler(next slog.Handler) slog.Handler {
	switch next.(type) {
	case nil:
		return nil
	case *SanitizingHandler:
		return next
	}
	return &SanitizingHandler{next: next}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, ScrubAddresses(rec.Message), rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(SanitizeAttr(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SanitizingHandler{next: h.next.WithAttrs(sanitizeAttrs(attrs))}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name)}
}

func SanitizeAttr(attr slog.Attr) slog.Attr {
	key := strings.TrimSpace(attr.Key)
	value := attr.Value.Resolve()
	switch ruleFor(strings.ToLower(key)) {
	case redactKey:
		return slog.String(key, redactedValue)
	case fingerprintKey:
		return slog.String(fingerprintKeyName(key), FingerprintID(valueText(value)))
	}
	switch value.Kind() {
	case slog.KindGroup:
		return slog.Attr{Key: key, Value: slog.GroupValue(sanitizeAttrs(value.Group())...)}
	case slog.KindString:
		return slog.String(key, ScrubAddresses(value.String()))
	case slog.KindAny:
		switch v := value.Any().(type) {
		case error:
			return slog.String(key, ScrubAddresses(v.Error()))
		case fmt.Stringer:
			return slog.String(key, ScrubAddresses(v.String()))
		}
	}
	return slog.Attr{Key: key, Value: value}
}

// FingerprintID is stable within a process and unlinkable across restarts.
func FingerprintID(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed + "|" + bootNonce))
	return fingerprintPrefix + hex.EncodeToString(sum[:8])
}

// ScrubAddresses replaces every base58 address embedded in s with its
// fingerprint. Runs that do not decode to exactly 32 bytes are left alone.
func ScrubAddresses(s string) string {
	if len(s) < minAddressText {
		return s
	}
	var b strings.Builder
	changed := false
	last := 0
	for i := 0; i < len(s); {
		if !isBase58Char(s[i]) {
			i++
			continue
		}
		start := i
		for i < len(s) && isBase58Char(s[i]) {
			i++
		}
		token := s[start:i]
		if !looksLikeAddress(token) {
			continue
		}
		if !changed {
			b.Grow(len(s))
			changed = true
		}
		b.WriteString(s[last:start])
		b.WriteString(FingerprintID(token))
		last = i
	}
	if !changed {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func looksLikeAddress(token string) bool {
	if len(token) < minAddressText || len(token) > maxAddressText {
		return false
	}
	raw, err := base58.Decode(token)
	return err == nil && len(raw) == addressSize
}

func isBase58Char(c byte) bool {
	return strings.IndexByte(base58Alphabet, c) >= 0
}

func sanitizeAttrs(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, SanitizeAttr(attr))
	}
	return out
}

func ruleFor(key string) keyRule {
	for _, part := range secretParts {
		if strings.Contains(key, part) {
			return redactKey
		}
	}
	for _, k := range addressKeys {
		if key == k {
			return fingerprintKey
		}
	}
	for _, tail := range addressTails {
		if strings.HasSuffix(key, tail) {
			return fingerprintKey
		}
	}
	return keepKey
}

func fingerprintKeyName(key string) string {
	if strings.HasSuffix(strings.ToLower(key), fingerprintSuffix) {
		return key
	}
	return key + fingerprintSuffix
}

func valueText(v slog.Value) string {
	if v.Kind() == slog.KindAny {
		if s, ok := v.Any().(fmt.Stringer); ok {
			return s.String()
		}
	}
	return v.String()
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "fallback_nonce"
	}
	return hex.EncodeToString(buf)
}
