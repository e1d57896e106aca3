package main

import (
	"encoding/hex"
	"errors"
	"os"
	"strings"

	"cipher-ledger/go-client/internal/identity"

	"github.com/spf13/cobra"
)

const passphraseEnv = "CIPHER_PASSPHRASE"

var errKeystoreExists = errors.New("keystore already exists, pass --force to overwrite")

type walletView struct {
	Address             string `json:"address"`
	EncryptionPublicKey string `json:"encryption_public_key"`
	Mnemonic            string `json:"mnemonic,omitempty"`
}

func viewOf(w identity.Wallet, mnemonic string) walletView {
	return walletView{
		Address:             w.Address().String(),
		EncryptionPublicKey: hex.EncodeToString(w.Encryption.PublicKey[:]),
		Mnemonic:            mnemonic,
	}
}

// keyFlags are shared by every command that unlocks the keystore.
type keyFlags struct {
	keystore   string
	passphrase string
}

func (f *keyFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.keystore, "keystore", "", "Keystore path (defaults to keystorePath from config)")
	cmd.PersistentFlags().StringVar(&f.passphrase, "passphrase", "", "Keystore passphrase (defaults to $"+passphraseEnv+")")
}

func (f *keyFlags) path(a *app) string {
	if p := strings.TrimSpace(f.keystore); p != "" {
		return p
	}
	return a.cfg.KeystorePath
}

func (f *keyFlags) secret() string {
	if f.passphrase != "" {
		return f.passphrase
	}
	return os.Getenv(passphraseEnv)
}

func (f *keyFlags) unlock(a *app) (identity.Wallet, error) {
	k := identity.NewKeyring()
	if err := k.LoadFile(f.path(a)); err != nil {
		return identity.Wallet{}, err
	}
	return k.Unlock(f.secret())
}

func newWalletCmd(a *app) *cobra.Command {
	flags := &keyFlags{}
	var force bool
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Create, import and inspect the sealed wallet keystore",
	}
	flags.register(walletCmd)

	save := func(k *identity.Keyring) error {
		path := flags.path(a)
		if _, err := os.Stat(path); err == nil && !force {
			return errKeystoreExists
		}
		if err := k.SaveFile(path); err != nil {
			return err
		}
		a.logger.Info("keystore written", "component", "cipherctl", "operation", "wallet_save", "keystore_path", path)
		return nil
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a mnemonic and seal it into the keystore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := identity.NewKeyring()
			mnemonic, wallet, err := k.Create(flags.secret())
			if err != nil {
				return err
			}
			if err := save(k); err != nil {
				return err
			}
			return a.printJSON(viewOf(wallet, mnemonic))
		},
	}
	newCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing keystore")

	importCmd := &cobra.Command{
		Use:   "import [mnemonic words...]",
		Short: "Seal an existing BIP-39 mnemonic into the keystore",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k := identity.NewKeyring()
			_, wallet, err := k.Import(strings.Join(args, " "), flags.secret())
			if err != nil {
				return err
			}
			if err := save(k); err != nil {
				return err
			}
			return a.printJSON(viewOf(wallet, ""))
		},
	}
	importCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing keystore")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the wallet address and encryption public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wallet, err := flags.unlock(a)
			if err != nil {
				return err
			}
			return a.printJSON(viewOf(wallet, ""))
		},
	}

	walletCmd.AddCommand(newCmd, importCmd, showCmd)
	return walletCmd
}
