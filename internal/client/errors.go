package client

import (
	"errors"
	"strings"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/internal/envelope"
	"cipher-ledger/go-client/internal/pda"
)

var (
	ErrRecipientNotRegistered = errors.New("recipient has no profile")
	ErrNoSubmitter            = errors.New("client has no submitter")
)

const (
	ErrorCategorySeed   = "seed"
	ErrorCategoryCodec  = "codec"
	ErrorCategoryCrypto = "crypto"
	ErrorCategoryLedger = "ledger"
	ErrorCategoryInput  = "input"
)

// CategorizedError tags an error with the layer it came from.
type CategorizedError struct {
	Category string
	Err      error
}

func (e *CategorizedError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *CategorizedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func normalizeErrorCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case ErrorCategorySeed:
		return ErrorCategorySeed
	case ErrorCategoryCodec:
		return ErrorCategoryCodec
	case ErrorCategoryCrypto:
		return ErrorCategoryCrypto
	case ErrorCategoryLedger:
		return ErrorCategoryLedger
	default:
		return ErrorCategoryInput
	}
}

// WrapCategorizedError keeps an existing category rather than overriding it.
func WrapCategorizedError(category string, err error) error {
	if err == nil {
		return nil
	}
	var existing *CategorizedError
	if errors.As(err, &existing) {
		return err
	}
	return &CategorizedError{Category: normalizeErrorCategory(category), Err: err}
}

// ErrorCategory classifies err for logs and metrics. Explicit categories win,
// then known sentinels, then the input fallback.
func ErrorCategory(err error) string {
	if err == nil {
		return ""
	}
	var classified *CategorizedError
	if errors.As(err, &classified) {
		return normalizeErrorCategory(classified.Category)
	}
	switch {
	case errors.Is(err, pda.ErrInvalidSeed):
		return ErrorCategorySeed
	case errors.Is(err, codec.ErrMalformedRecord):
		return ErrorCategoryCodec
	case errors.Is(err, envelope.ErrDecryptionFailed),
		errors.Is(err, envelope.ErrMalformedCiphertext),
		errors.Is(err, envelope.ErrInvalidKey),
		errors.Is(err, envelope.ErrContentTooLarge):
		return ErrorCategoryCrypto
	case errors.Is(err, ErrRecipientNotRegistered):
		return ErrorCategoryLedger
	default:
		return ErrorCategoryInput
	}
}
