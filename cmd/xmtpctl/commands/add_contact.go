package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// addContactCmd imports a bundle file produced by a peer's `register`
// command into the local contact cache.
func addContactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-contact <bundle-file>",
		Short: "Import a peer's published bundle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var published publishedBundle
			if err := json.Unmarshal(raw, &published); err != nil {
				return fmt.Errorf("add-contact: parse bundle file: %w", err)
			}

			peer := published.V1.WalletAddress
			if err := wire.Contacts.SaveBundleV1(peer, published.V1); err != nil {
				return err
			}
			if err := wire.Contacts.SaveBundleV2(peer, published.V2); err != nil {
				return err
			}
			fmt.Printf("Added contact %s\n", peer)
			return nil
		},
	}
}
