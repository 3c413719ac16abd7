package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chatgpt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
session_token: tok-abc
api_base_url: https://example.test/api
backend_base_url: https://example.test/backend-api
user_agent: my-bot/2.0
markdown: true
requests_per_minute: 30
stream_timeout: 2m
cache:
  backend: redis
  redis_addr: localhost:6379
  redis_prefix: myapp
metrics:
  enabled: true
  addr: ":9191"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok-abc", cfg.SessionToken)
	assert.Equal(t, "https://example.test/api", cfg.APIBaseURL)
	assert.Equal(t, "https://example.test/backend-api", cfg.BackendBaseURL)
	assert.Equal(t, "my-bot/2.0", cfg.UserAgent)
	assert.True(t, cfg.Markdown)
	assert.Equal(t, 30, cfg.RequestsPerMinute)
	assert.Equal(t, "2m0s", cfg.StreamTimeout.String())
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "myapp", cfg.Cache.RedisPrefix)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9191", cfg.Metrics.Addr)
	assert.Equal(t, filepath.Dir(path), cfg.ConfigDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "session_token: [unbalanced")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate_UnknownCacheBackend(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "memcached"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache backend")
}

func TestValidate_RedisRequiresAddr(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = CacheBackendRedis

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis_addr")
}

func TestValidate_NegativeRateLimit(t *testing.T) {
	cfg := Default()
	cfg.RequestsPerMinute = -1

	require.Error(t, cfg.Validate())
}

func TestResolveSessionToken_Explicit(t *testing.T) {
	cfg := &Config{SessionToken: "direct"}

	token, err := cfg.ResolveSessionToken()
	require.NoError(t, err)
	assert.Equal(t, "direct", token)
}

func TestResolveSessionToken_File(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.txt"), []byte("from-file\n"), 0o600))

	cfg := &Config{SessionTokenFile: "token.txt", ConfigDir: dir}

	token, err := cfg.ResolveSessionToken()
	require.NoError(t, err)
	assert.Equal(t, "from-file", token)
}

func TestResolveSessionToken_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.txt"), []byte("  \n"), 0o600))

	cfg := &Config{SessionTokenFile: "token.txt", ConfigDir: dir}

	_, err := cfg.ResolveSessionToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestResolveSessionToken_NamedEnv(t *testing.T) {
	t.Setenv("MY_SESSION_TOKEN", "from-env")

	cfg := &Config{SessionTokenEnv: "MY_SESSION_TOKEN"}

	token, err := cfg.ResolveSessionToken()
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)
}

func TestResolveSessionToken_NamedEnvUnset(t *testing.T) {
	cfg := &Config{SessionTokenEnv: "DEFINITELY_NOT_SET_VAR"}

	_, err := cfg.ResolveSessionToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFINITELY_NOT_SET_VAR")
}

func TestResolveSessionToken_DefaultEnv(t *testing.T) {
	t.Setenv("CHATGPT_SESSION_TOKEN", "default-env")

	cfg := Default()

	token, err := cfg.ResolveSessionToken()
	require.NoError(t, err)
	assert.Equal(t, "default-env", token)
}

func TestResolveSessionToken_NoCredential(t *testing.T) {
	t.Setenv("CHATGPT_SESSION_TOKEN", "")
	t.Setenv("SESSION_TOKEN", "")

	cfg := Default()

	_, err := cfg.ResolveSessionToken()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session token configured")
}

func TestClientOptions(t *testing.T) {
	cfg := &Config{
		APIBaseURL:        "https://example.test/api",
		UserAgent:         "my-bot/2.0",
		Markdown:          true,
		RequestsPerMinute: 10,
	}
	require.NoError(t, cfg.Validate())

	opts, err := cfg.ClientOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 4)
}

func TestClientOptions_Defaults(t *testing.T) {
	opts, err := Default().ClientOptions()
	require.NoError(t, err)
	assert.Empty(t, opts)
}
