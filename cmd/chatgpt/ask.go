package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/chatgpt/client"
)

var (
	askConversationID  string
	askParentMessageID string
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send a single message and print the reply",
	Long: `Ask sends one message and streams the reply to stdout as it is
generated. Pass --conversation-id and --parent-message-id to continue an
existing thread.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askConversationID, "conversation-id", "", "continue an existing conversation")
	askCmd.Flags().StringVar(&askParentMessageID, "parent-message-id", "", "thread off a specific message")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	c, _, err := buildClient(cmd)
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")

	// Print each cumulative snapshot by emitting only the suffix the
	// previous snapshot did not have.
	printed := 0
	_, err = c.SendMessage(cmd.Context(), message, client.SendOptions{
		ConversationID:  askConversationID,
		ParentMessageID: askParentMessageID,
		OnProgress: func(text string) {
			if len(text) > printed {
				fmt.Print(text[printed:])
				printed = len(text)
			}
		},
	})
	if err != nil {
		return err
	}

	fmt.Println()
	return nil
}
