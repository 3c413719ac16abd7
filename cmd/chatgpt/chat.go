package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/chatgpt/client"
)

var (
	chatConversationID  string
	chatParentMessageID string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Chat opens an interactive session. Each message is sent in the same
conversation, so the assistant keeps context across turns.

Type /reset to start a fresh conversation, /state to print the current
conversation identifiers, and /quit (or Ctrl-D) to exit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatConversationID, "conversation-id", "", "resume an existing conversation")
	chatCmd.Flags().StringVar(&chatParentMessageID, "parent-message-id", "", "thread off a specific message")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	c, _, err := buildClient(cmd)
	if err != nil {
		return err
	}

	conv := c.GetConversation(client.ConversationOptions{
		ConversationID:  chatConversationID,
		ParentMessageID: chatParentMessageID,
	})

	fmt.Println("Interactive chat. Type /quit to exit, /reset for a new conversation.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit", line == "/exit":
			return nil
		case line == "/reset":
			conv = c.GetConversation(client.ConversationOptions{})
			fmt.Println("Started a new conversation.")
			continue
		case line == "/state":
			state := conv.State()
			fmt.Printf("conversation: %s\nparent message: %s\n",
				orUnset(state.ConversationID), orUnset(state.ParentMessageID))
			continue
		}

		printed := 0
		_, err := conv.SendMessage(cmd.Context(), line, client.SendOptions{
			OnProgress: func(text string) {
				if len(text) > printed {
					fmt.Print(text[printed:])
					printed = len(text)
				}
			},
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println()
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(not started)"
	}
	return s
}
