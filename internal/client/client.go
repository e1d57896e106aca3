// Package client composes address derivation, record encoding, envelope
// encryption and the ledger ports into record-level reads and writes.
package client

import (
	"context"
	"errors"
	"log/slog"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/internal/envelope"
	"cipher-ledger/go-client/internal/ledger"
	"cipher-ledger/go-client/internal/metrics"
	"cipher-ledger/go-client/internal/pda"
	"cipher-ledger/go-client/internal/platform/privacylog"
	"cipher-ledger/go-client/pkg/models"
)

var ErrReaderRequired = errors.New("ledger reader is required")

type Config struct {
	ProgramID models.Address
	// Codec defaults to codec.Default().
	Codec    *codec.Codec
	Envelope *envelope.Envelope
	Reader   ledger.Reader
	// Submitter may be nil for read-only clients.
	Submitter ledger.Submitter
	Logger    *slog.Logger
	Metrics   *metrics.ClientMetrics
}

type Client struct {
	deriver   *pda.Deriver
	codec     *codec.Codec
	envelope  *envelope.Envelope
	reader    ledger.Reader
	submitter ledger.Submitter
	logger    *slog.Logger
	metrics   *metrics.ClientMetrics
}

func New(cfg Config) (*Client, error) {
	if cfg.Reader == nil {
		return nil, ErrReaderRequired
	}
	c := &Client{
		deriver:   pda.New(cfg.ProgramID),
		codec:     cfg.Codec,
		envelope:  cfg.Envelope,
		reader:    cfg.Reader,
		submitter: cfg.Submitter,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
	if c.codec == nil {
		c.codec = codec.Default()
	}
	if c.envelope == nil {
		c.envelope = envelope.New()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = slog.New(privacylog.WrapHandler(c.logger.Handler()))
	if c.metrics == nil {
		c.metrics = metrics.Noop()
	}
	return c, nil
}

func (c *Client) ProgramID() models.Address {
	return c.deriver.ProgramID
}

func (c *Client) Deriver() *pda.Deriver {
	return c.deriver
}

func (c *Client) Codec() *codec.Codec {
	return c.codec
}

// FetchProfile returns the profile registered for wallet. A wallet that never
// registered yields (zero, false, nil).
func (c *Client) FetchProfile(ctx context.Context, wallet models.Address) (models.Profile, bool, error) {
	const op = "fetch_profile"
	address, _, err := c.deriver.Profile(wallet)
	if err != nil {
		return models.Profile{}, false, c.fail(op, wallet.String(), ErrorCategorySeed, err)
	}
	data, ok, err := c.getAccount(ctx, op, address)
	if err != nil || !ok {
		return models.Profile{}, false, err
	}
	profile, err := c.codec.DecodeProfile(data)
	if err != nil {
		return models.Profile{}, false, c.decodeFailed(op, codec.AccountProfile, address, err)
	}
	return profile, true, nil
}

func (c *Client) FetchNote(ctx context.Context, address models.Address) (models.Note, bool, error) {
	const op = "fetch_note"
	data, ok, err := c.getAccount(ctx, op, address)
	if err != nil || !ok {
		return models.Note{}, false, err
	}
	note, err := c.codec.DecodeNote(data)
	if err != nil {
		return models.Note{}, false, c.decodeFailed(op, codec.AccountNote, address, err)
	}
	return note, true, nil
}

func (c *Client) FetchMessage(ctx context.Context, address models.Address) (models.Message, bool, error) {
	const op = "fetch_message"
	data, ok, err := c.getAccount(ctx, op, address)
	if err != nil || !ok {
		return models.Message{}, false, err
	}
	message, err := c.codec.DecodeMessage(data)
	if err != nil {
		return models.Message{}, false, c.decodeFailed(op, codec.AccountMessage, address, err)
	}
	return message, true, nil
}

// FetchNotesByCreator lists every note whose creator field equals creator.
// The creator on each result is taken from the query, not the fetched bytes.
func (c *Client) FetchNotesByCreator(ctx context.Context, creator models.Address) ([]models.KeyedNote, error) {
	const op = "fetch_notes_by_creator"
	accounts, err := c.listAccounts(ctx, op, creator, c.codec.NotesByCreator(creator))
	if err != nil {
		return nil, err
	}
	out := make([]models.KeyedNote, 0, len(accounts))
	for _, acc := range accounts {
		note, err := c.codec.DecodeNote(acc.Data)
		if err != nil {
			return nil, c.decodeFailed(op, codec.AccountNote, acc.Address, err)
		}
		note.Creator = creator
		out = append(out, models.KeyedNote{Address: acc.Address, Note: note})
	}
	return out, nil
}

// FetchMessagesByRecipient lists messages addressed to recipient.
func (c *Client) FetchMessagesByRecipient(ctx context.Context, recipient models.Address) ([]models.KeyedMessage, error) {
	const op = "fetch_messages_by_recipient"
	accounts, err := c.listAccounts(ctx, op, recipient, c.codec.MessagesByRecipient(recipient))
	if err != nil {
		return nil, err
	}
	out := make([]models.KeyedMessage, 0, len(accounts))
	for _, acc := range accounts {
		message, err := c.codec.DecodeMessage(acc.Data)
		if err != nil {
			return nil, c.decodeFailed(op, codec.AccountMessage, acc.Address, err)
		}
		message.To = recipient
		out = append(out, models.KeyedMessage{Address: acc.Address, Message: message})
	}
	return out, nil
}

// FetchMessagesBySender lists messages sent by sender.
func (c *Client) FetchMessagesBySender(ctx context.Context, sender models.Address) ([]models.KeyedMessage, error) {
	const op = "fetch_messages_by_sender"
	accounts, err := c.listAccounts(ctx, op, sender, c.codec.MessagesBySender(sender))
	if err != nil {
		return nil, err
	}
	out := make([]models.KeyedMessage, 0, len(accounts))
	for _, acc := range accounts {
		message, err := c.codec.DecodeMessage(acc.Data)
		if err != nil {
			return nil, c.decodeFailed(op, codec.AccountMessage, acc.Address, err)
		}
		message.From = sender
		out = append(out, models.KeyedMessage{Address: acc.Address, Message: message})
	}
	return out, nil
}

func (c *Client) getAccount(ctx context.Context, op string, address models.Address) ([]byte, bool, error) {
	data, ok, err := c.reader.GetAccount(ctx, address)
	switch {
	case err != nil:
		c.metrics.RecordRead(op, metrics.ResultError)
		return nil, false, c.fail(op, address.String(), ErrorCategoryLedger, err)
	case !ok:
		c.metrics.RecordRead(op, metrics.ResultAbsent)
		c.logDebug(op, address.String(), "account absent", "address", address.String())
		return nil, false, nil
	default:
		c.metrics.RecordRead(op, metrics.ResultOK)
		return data, true, nil
	}
}

func (c *Client) listAccounts(ctx context.Context, op string, key models.Address, filters []models.Filter) ([]ledger.KeyedAccount, error) {
	accounts, err := c.reader.GetProgramAccounts(ctx, c.deriver.ProgramID, filters)
	if err != nil {
		c.metrics.RecordRead(op, metrics.ResultError)
		return nil, c.fail(op, key.String(), ErrorCategoryLedger, err)
	}
	c.metrics.RecordRead(op, metrics.ResultOK)
	c.logDebug(op, key.String(), "program accounts listed", "count", len(accounts))
	return accounts, nil
}

func (c *Client) decodeFailed(op string, kind codec.AccountKind, address models.Address, err error) error {
	c.metrics.RecordDecodeFailure(kind.String())
	return c.fail(op, address.String(), ErrorCategoryCodec, err)
}
