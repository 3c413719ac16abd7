// Package config loads client configuration from YAML files and the
// environment. A config file is optional: every field has a sensible
// default, and the session token can come from the environment instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultEnvVars are the environment variables consulted, in order, when
// no explicit session token is configured.
var DefaultEnvVars = []string{"CHATGPT_SESSION_TOKEN", "SESSION_TOKEN"}

// Cache backend identifiers.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config is the full client configuration.
type Config struct {
	// Credential resolution chain: explicit token, token file, named
	// environment variable. When all are empty the default environment
	// variables are consulted.
	SessionToken     string `yaml:"session_token,omitempty"`
	SessionTokenFile string `yaml:"session_token_file,omitempty"`
	SessionTokenEnv  string `yaml:"session_token_env,omitempty"`

	APIBaseURL     string `yaml:"api_base_url,omitempty"`
	BackendBaseURL string `yaml:"backend_base_url,omitempty"`
	UserAgent      string `yaml:"user_agent,omitempty"`

	// Markdown disables plain-text rendering of responses.
	Markdown bool `yaml:"markdown,omitempty"`

	Cache   CacheConfig   `yaml:"cache,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`

	// RequestsPerMinute enables client-side rate limiting when positive.
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty"`

	// StreamTimeout bounds a single conversation exchange.
	StreamTimeout Duration `yaml:"stream_timeout,omitempty"`

	// ConfigDir is the directory the config file was loaded from, used
	// to resolve relative paths. Not part of the YAML surface.
	ConfigDir string `yaml:"-"`
}

// CacheConfig selects the access-token cache backend.
type CacheConfig struct {
	Backend string `yaml:"backend,omitempty"` // "memory" (default) or "redis"

	// Redis settings, used when Backend is "redis".
	RedisAddr     string `yaml:"redis_addr,omitempty"`
	RedisPassword string `yaml:"redis_password,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"`
	RedisPrefix   string `yaml:"redis_prefix,omitempty"`
}

// MetricsConfig controls the optional Prometheus exporter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Addr    string `yaml:"addr,omitempty"` // default ":9090"
}

// Load reads and validates a YAML config file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ConfigDir = filepath.Dir(filename)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with all defaults applied and no
// credential set.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{Backend: CacheBackendMemory},
	}
}

// Validate checks field combinations that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache backend %q requires redis_addr", CacheBackendRedis)
		}
	default:
		return fmt.Errorf("unknown cache backend %q (expected %q or %q)",
			c.Cache.Backend, CacheBackendMemory, CacheBackendRedis)
	}

	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative, got %d", c.RequestsPerMinute)
	}

	if c.Metrics.Enabled && c.Metrics.Addr != "" && !strings.Contains(c.Metrics.Addr, ":") {
		return fmt.Errorf("metrics addr %q is missing a port", c.Metrics.Addr)
	}
	return nil
}

// ResolveSessionToken walks the credential chain and returns the session
// token to authenticate with.
func (c *Config) ResolveSessionToken() (string, error) {
	if c.SessionToken != "" {
		return c.SessionToken, nil
	}

	if c.SessionTokenFile != "" {
		token, err := readTokenFile(c.SessionTokenFile, c.ConfigDir)
		if err != nil {
			return "", fmt.Errorf("failed to read session token file: %w", err)
		}
		return token, nil
	}

	if c.SessionTokenEnv != "" {
		token := os.Getenv(c.SessionTokenEnv)
		if token == "" {
			return "", fmt.Errorf("environment variable %s is not set", c.SessionTokenEnv)
		}
		return token, nil
	}

	for _, envVar := range DefaultEnvVars {
		if token := os.Getenv(envVar); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("no session token configured (set session_token or %s)", DefaultEnvVars[0])
}

func readTokenFile(path, configDir string) (string, error) {
	if !filepath.IsAbs(path) && configDir != "" {
		path = filepath.Join(configDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return token, nil
}
