package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"xmtpcore/internal/identity"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a wallet-bound identity and store it securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}

			signer, err := identity.NewLocalWalletSigner()
			if err != nil {
				return err
			}
			bundle, _, err := identity.CreatePrivateKeyBundle(signer)
			if err != nil {
				return err
			}
			if err := wire.Keys.SavePrivateKeyBundle(passphrase, bundle); err != nil {
				return err
			}

			fmt.Printf("Identity created.\nWallet address: %s\n", bundle.WalletAddress)
			return nil
		},
	}
}
