package main

import (
	"encoding/hex"
	"fmt"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/internal/envelope"

	"github.com/spf13/cobra"
)

type sealedNoteView struct {
	Ciphertext  string `json:"ciphertext"`
	Nonce       string `json:"nonce"`
	Address     string `json:"address,omitempty"`
	Instruction string `json:"instruction,omitempty"`
}

type sealedMessageView struct {
	Ciphertext         string `json:"ciphertext"`
	Nonce              string `json:"nonce"`
	EphemeralPublicKey string `json:"ephemeral_public_key"`
}

type openedView struct {
	Plaintext string `json:"plaintext"`
}

func newNoteCmd(a *app) *cobra.Command {
	flags := &keyFlags{}
	var timestamp int64
	noteCmd := &cobra.Command{
		Use:   "note",
		Short: "Seal and open note payloads with the wallet's own key",
	}
	flags.register(noteCmd)

	sealCmd := &cobra.Command{
		Use:   "seal [plaintext]",
		Short: "Encrypt a note; with --timestamp also print its address and create-note instruction data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := flags.unlock(a)
			if err != nil {
				return err
			}
			ct, nonce, err := envelope.New().EncryptNote([]byte(args[0]), wallet.Encryption.SecretKey[:])
			if err != nil {
				return err
			}
			view := sealedNoteView{Ciphertext: hex.EncodeToString(ct), Nonce: hex.EncodeToString(nonce[:])}
			if cmd.Flags().Changed("timestamp") {
				addr, _, err := a.deriver.Note(wallet.Address(), timestamp)
				if err != nil {
					return err
				}
				data, err := a.codec.EncodeCreateNote(codec.CreateNoteCommand{Ciphertext: ct, Nonce: nonce, Timestamp: timestamp})
				if err != nil {
					return err
				}
				view.Address = addr.String()
				view.Instruction = hex.EncodeToString(data)
			}
			return a.printJSON(view)
		},
	}
	sealCmd.Flags().Int64Var(&timestamp, "timestamp", 0, "Unix timestamp the note will be created at")

	openCmd := &cobra.Command{
		Use:   "open [ciphertext-hex] [nonce-hex]",
		Short: "Decrypt a note sealed by this wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := flags.unlock(a)
			if err != nil {
				return err
			}
			ct, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			var nonce [envelope.NonceSize]byte
			if err := decodeFixedHex(args[1], nonce[:]); err != nil {
				return fmt.Errorf("nonce: %w", err)
			}
			plain, err := envelope.DecryptNote(ct, nonce, wallet.Encryption.SecretKey[:])
			if err != nil {
				return err
			}
			return a.printJSON(openedView{Plaintext: string(plain)})
		},
	}

	noteCmd.AddCommand(sealCmd, openCmd)
	return noteCmd
}

func newMessageCmd(a *app) *cobra.Command {
	flags := &keyFlags{}
	messageCmd := &cobra.Command{
		Use:   "message",
		Short: "Seal messages to a recipient key and open messages sent to this wallet",
	}
	flags.register(messageCmd)

	sealCmd := &cobra.Command{
		Use:   "seal [recipient-encryption-key-hex] [plaintext]",
		Short: "Encrypt a message to a recipient's registered encryption key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var recipient [envelope.KeySize]byte
			if err := decodeFixedHex(args[0], recipient[:]); err != nil {
				return fmt.Errorf("recipient key: %w", err)
			}
			ct, nonce, eph, err := envelope.New().EncryptMessage([]byte(args[1]), recipient)
			if err != nil {
				return err
			}
			return a.printJSON(sealedMessageView{
				Ciphertext:         hex.EncodeToString(ct),
				Nonce:              hex.EncodeToString(nonce[:]),
				EphemeralPublicKey: hex.EncodeToString(eph[:]),
			})
		},
	}

	openCmd := &cobra.Command{
		Use:   "open [ciphertext-hex] [nonce-hex] [ephemeral-key-hex]",
		Short: "Decrypt a message addressed to this wallet",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := flags.unlock(a)
			if err != nil {
				return err
			}
			ct, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			var nonce [envelope.NonceSize]byte
			if err := decodeFixedHex(args[1], nonce[:]); err != nil {
				return fmt.Errorf("nonce: %w", err)
			}
			var eph [envelope.KeySize]byte
			if err := decodeFixedHex(args[2], eph[:]); err != nil {
				return fmt.Errorf("ephemeral key: %w", err)
			}
			plain, err := envelope.DecryptMessage(ct, nonce, eph, wallet.Encryption.SecretKey)
			if err != nil {
				return err
			}
			return a.printJSON(openedView{Plaintext: string(plain)})
		},
	}

	messageCmd.AddCommand(sealCmd, openCmd)
	return messageCmd
}
