package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/chatgpt/client"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Check whether the configured session token works",
	Args:  cobra.NoArgs,
	RunE:  runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	c, _, err := buildClient(cmd)
	if err != nil {
		return err
	}

	if err := c.EnsureAuth(cmd.Context()); err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			return fmt.Errorf("session token rejected, it may have expired: %w", err)
		}
		return err
	}

	fmt.Println("✓ Authenticated")
	return nil
}
