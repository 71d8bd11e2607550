package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"xmtpcore/internal/codec"
	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
)

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <peer-address> <message>",
		Short: "Send a message to a peer, starting a conversation if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			peer, err := domaintypes.ParseWalletAddress(args[0])
			if err != nil {
				return err
			}

			_, conversations, err := wire.Open(passphrase)
			if err != nil {
				return err
			}

			ctx := context.Background()
			invCtx := domaintypes.InvitationContext{ConversationID: conversationID}
			conv, err := conversations.NewConversation(ctx, peer, invCtx)
			if err != nil {
				return err
			}
			if err := conv.Send(ctx, args[1], interfaces.SendOptions{ContentType: codec.TextContentType}); err != nil {
				return err
			}

			if record, ok := conversations.ExportRecord(conv.Topic()); ok {
				if err := wire.Sessions.SaveSessionRecord(conv.Topic(), record); err != nil {
					return fmt.Errorf("send: persist session record: %w", err)
				}
			}

			fmt.Println("sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&conversationID, "conversation-id", "", "v2 invitation context conversation id")
	return cmd
}
