package main

import (
	"fmt"
	"strconv"

	"cipher-ledger/go-client/pkg/models"

	"github.com/spf13/cobra"
)

type derivedView struct {
	Record  string `json:"record"`
	Address string `json:"address"`
	Bump    uint8  `json:"bump"`
}

func newDeriveCmd(a *app) *cobra.Command {
	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive record addresses for the configured program",
	}

	deriveCmd.AddCommand(
		&cobra.Command{
			Use:   "profile [wallet]",
			Short: "Derive the profile address of a wallet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				wallet, err := models.ParseAddress(args[0])
				if err != nil {
					return err
				}
				addr, bump, err := a.deriver.Profile(wallet)
				if err != nil {
					return err
				}
				return a.printJSON(derivedView{Record: "profile", Address: addr.String(), Bump: bump})
			},
		},
		&cobra.Command{
			Use:   "note [creator] [timestamp]",
			Short: "Derive the address of a note created at a unix timestamp",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				creator, err := models.ParseAddress(args[0])
				if err != nil {
					return err
				}
				ts, err := parseTimestamp(args[1])
				if err != nil {
					return err
				}
				addr, bump, err := a.deriver.Note(creator, ts)
				if err != nil {
					return err
				}
				return a.printJSON(derivedView{Record: "note", Address: addr.String(), Bump: bump})
			},
		},
		&cobra.Command{
			Use:   "message [sender] [recipient] [timestamp]",
			Short: "Derive the address of a message sent at a unix timestamp",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				sender, err := models.ParseAddress(args[0])
				if err != nil {
					return err
				}
				recipient, err := models.ParseAddress(args[1])
				if err != nil {
					return err
				}
				ts, err := parseTimestamp(args[2])
				if err != nil {
					return err
				}
				addr, bump, err := a.deriver.Message(sender, recipient, ts)
				if err != nil {
					return err
				}
				return a.printJSON(derivedView{Record: "message", Address: addr.String(), Bump: bump})
			},
		},
	)
	return deriveCmd
}

func parseTimestamp(raw string) (int64, error) {
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return ts, nil
}
