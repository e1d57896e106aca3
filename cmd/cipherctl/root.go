package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"cipher-ledger/go-client/internal/codec"
	"cipher-ledger/go-client/internal/config"
	"cipher-ledger/go-client/internal/pda"

	"github.com/spf13/cobra"
)

// app carries the state shared by subcommands once the root has loaded config.
type app struct {
	out        io.Writer
	errOut     io.Writer
	configPath string
	verbose    bool

	cfg     config.Config
	logger  *slog.Logger
	codec   *codec.Codec
	deriver *pda.Deriver
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	rootCmd := &cobra.Command{
		Use:   "cipherctl",
		Short: "Offline toolkit for encrypted notes and messages stored on the ledger",
		Long: `cipherctl derives record addresses, encodes and decodes record buffers and
seals or opens note and message payloads without talking to a ledger node.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to cipher.yaml")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newVersionCmd(a),
		newWalletCmd(a),
		newDeriveCmd(a),
		newDecodeCmd(a),
		newFiltersCmd(a),
		newNoteCmd(a),
		newMessageCmd(a),
		newSimulateCmd(a),
	)
	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.LoadFromPath(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	c, err := cfg.Codec()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.codec = c
	a.deriver = pda.New(cfg.ProgramID)
	a.logger = cfg.Logger(a.errOut)
	return nil
}

func (a *app) printJSON(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
