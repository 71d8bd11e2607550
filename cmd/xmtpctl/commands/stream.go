package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func streamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stream",
		Short: "Print decrypted messages across every conversation as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			_, conversations, err := wire.Open(passphrase)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			for msg := range conversations.StreamAllDecryptedMessages(ctx) {
				fmt.Printf("[%s] %s: %v\n", msg.Topic, msg.SenderAddress, msg.Content)
			}
			return nil
		},
	}
}
