// Command chatgpt is a terminal client for the conversational web API.
// It authenticates with a session token, streams replies, and keeps
// multi-turn context within a chat session.
package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/chatgpt/client"
	"github.com/AltairaLabs/chatgpt/config"
	"github.com/AltairaLabs/chatgpt/logger"
	"github.com/AltairaLabs/chatgpt/metrics"
)

const version = "v0.1.0"

var (
	configPath   string
	sessionToken string
	markdown     bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:           "chatgpt",
	Short:         "Chat with the conversational web API from your terminal",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	Long: `chatgpt talks to the conversational web API using a browser session
token. Replies stream in as they are generated, and the chat command keeps
multi-turn context so follow-up questions work the way they do in the web UI.

The session token can be set with --session-token, a config file, or the
CHATGPT_SESSION_TOKEN environment variable.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("verbose") {
			logger.SetVerbose(verbose)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&sessionToken, "session-token", "t", "", "session token (overrides config and environment)")
	rootCmd.PersistentFlags().BoolVarP(&markdown, "markdown", "m", false, "keep markdown formatting in responses")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig merges the config file (if any) with command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("session-token") {
		cfg.SessionToken = sessionToken
	}
	if flags.Changed("markdown") {
		cfg.Markdown = markdown
	}
	return cfg, nil
}

// buildClient constructs the API client from the resolved configuration.
func buildClient(cmd *cobra.Command) (*client.Client, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	token, err := cfg.ResolveSessionToken()
	if err != nil {
		return nil, nil, err
	}

	opts, err := cfg.ClientOptions()
	if err != nil {
		return nil, nil, err
	}

	c, err := client.New(token, opts...)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Metrics.Enabled {
		addr := cfg.Metrics.Addr
		if addr == "" {
			addr = ":9090"
		}
		exporter := metrics.NewExporter(addr)
		go func() {
			if err := exporter.Start(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics exporter stopped", "addr", addr, "error", err)
			}
		}()
	}
	return c, cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}
