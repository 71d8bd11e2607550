package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"xmtpcore/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string
	wire       *app.Wire

	conversationID string
)

// Execute builds the root command and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:   "xmtpctl",
		Short: "Decentralized end-to-end encrypted messaging CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".xmtpctl")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			w, err := app.NewWire(app.Config{Home: home, RelayURL: relayURL})
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.xmtpctl)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the local identity keystore")
	root.PersistentFlags().StringVar(&relayURL, "relay", "http://127.0.0.1:8080", "relay base URL")

	root.AddCommand(initCmd(), registerCmd(), addContactCmd(), sendCmd(), listCmd(), streamCmd())
	return root.Execute()
}
