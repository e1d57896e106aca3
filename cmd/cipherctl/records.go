package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/pkg/models"

	"github.com/spf13/cobra"
)

type profileView struct {
	Wallet              string `json:"wallet"`
	EncryptionPublicKey string `json:"encryption_public_key"`
	CreatedAt           int64  `json:"created_at"`
}

type noteView struct {
	Creator    string `json:"creator"`
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

type messageView struct {
	From               string `json:"from"`
	To                 string `json:"to"`
	Timestamp          int64  `json:"timestamp"`
	EphemeralPublicKey string `json:"ephemeral_public_key"`
	Nonce              string `json:"nonce"`
	Ciphertext         string `json:"ciphertext"`
}

type filterView struct {
	Offset int    `json:"offset"`
	Bytes  string `json:"bytes"`
}

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex-account-data]",
		Short: "Decode a raw profile, note or message account",
		Long: `Decode classifies the buffer by its account discriminator and prints the
record as JSON. Binary fields are printed as hex.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			kind, ok := a.codec.Kind(data)
			if !ok {
				return fmt.Errorf("%w: unknown account discriminator", codec.ErrMalformedRecord)
			}
			a.logger.Debug("decoding account", "component", "cipherctl", "operation", "decode", "kind", kind.String(), "bytes", len(data))
			switch kind {
			case codec.AccountProfile:
				p, err := a.codec.DecodeProfile(data)
				if err != nil {
					return err
				}
				return a.printJSON(profileView{
					Wallet:              p.Wallet.String(),
					EncryptionPublicKey: hex.EncodeToString(p.EncryptionPublicKey[:]),
					CreatedAt:           p.CreatedAt,
				})
			case codec.AccountNote:
				n, err := a.codec.DecodeNote(data)
				if err != nil {
					return err
				}
				return a.printJSON(noteView{
					Creator:    n.Creator.String(),
					Ciphertext: hex.EncodeToString(n.Ciphertext),
					Nonce:      hex.EncodeToString(n.Nonce[:]),
				})
			default:
				m, err := a.codec.DecodeMessage(data)
				if err != nil {
					return err
				}
				return a.printJSON(viewOfMessage(m))
			}
		},
	}
}

func newFiltersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "filters [notes-by-creator|messages-by-recipient|messages-by-sender] [address]",
		Short: "Print the account filters used for list queries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := models.ParseAddress(args[1])
			if err != nil {
				return err
			}
			var filters []models.Filter
			switch args[0] {
			case "notes-by-creator":
				filters = a.codec.NotesByCreator(addr)
			case "messages-by-recipient":
				filters = a.codec.MessagesByRecipient(addr)
			case "messages-by-sender":
				filters = a.codec.MessagesBySender(addr)
			default:
				return fmt.Errorf("unknown query %q", args[0])
			}
			out := make([]filterView, 0, len(filters))
			for _, f := range filters {
				out = append(out, filterView{Offset: f.Offset, Bytes: hex.EncodeToString(f.Bytes)})
			}
			return a.printJSON(out)
		},
	}
}

func viewOfMessage(m models.Message) messageView {
	return messageView{
		From:               m.From.String(),
		To:                 m.To.String(),
		Timestamp:          m.Timestamp,
		EphemeralPublicKey: hex.EncodeToString(m.EphemeralPublicKey[:]),
		Nonce:              hex.EncodeToString(m.Nonce[:]),
		Ciphertext:         hex.EncodeToString(m.Ciphertext),
	}
}

func decodeHex(raw string) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

func decodeFixedHex(raw string, dst []byte) error {
	data, err := decodeHex(raw)
	if err != nil {
		return err
	}
	if len(data) != len(dst) {
		return fmt.Errorf("expected %d bytes, got %d", len(dst), len(data))
	}
	copy(dst, data)
	return nil
}
