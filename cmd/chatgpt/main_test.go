package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chatgpt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session_token: from-file\nmarkdown: false\n"), 0o600))

	t.Cleanup(func() {
		configPath = ""
		sessionToken = ""
		markdown = false
	})

	configPath = path
	require.NoError(t, rootCmd.PersistentFlags().Set("session-token", "from-flag"))
	require.NoError(t, rootCmd.PersistentFlags().Set("markdown", "true"))

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.SessionToken)
	assert.True(t, cfg.Markdown)
}

func TestOrUnset(t *testing.T) {
	assert.Equal(t, "(not started)", orUnset(""))
	assert.Equal(t, "conv-1", orUnset("conv-1"))
}
