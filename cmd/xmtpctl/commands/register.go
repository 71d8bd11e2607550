package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domaintypes "xmtpcore/internal/domain/types"
)

// publishedBundle is the file format peers exchange out-of-band to learn
// each other's public key bundles; resolving it through a discoverable
// directory is not this CLI's concern.
type publishedBundle struct {
	V1 domaintypes.PublicKeyBundleV1 `json:"v1"`
	V2 domaintypes.PublicKeyBundleV2 `json:"v2"`
}

// register writes the local identity's public bundles to a file that can
// be handed to a peer so they can add-contact it.
func registerCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Export this identity's public bundles for a peer to import",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			self, err := wire.Keys.LoadPrivateKeyBundle(passphrase)
			if err != nil {
				return err
			}
			published := publishedBundle{V1: self.ToBundleV1(), V2: self.ToBundleV2()}

			raw, err := json.MarshalIndent(published, "", "  ")
			if err != nil {
				return fmt.Errorf("register: marshal bundle: %w", err)
			}
			if out == "" {
				fmt.Println(string(raw))
				return nil
			}
			return os.WriteFile(out, raw, 0o600)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the bundle to a file instead of stdout")
	return cmd
}
