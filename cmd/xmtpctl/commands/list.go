package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known and discoverable conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			_, conversations, err := wire.Open(passphrase)
			if err != nil {
				return err
			}

			convs, err := conversations.List(context.Background())
			if err != nil {
				return err
			}
			for _, c := range convs {
				fmt.Printf("%s\tpeer=%s\tcreated=%d\n", c.Topic(), c.PeerAddress(), c.CreatedAt())
			}
			return nil
		},
	}
}
