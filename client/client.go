// Package client implements a session-token client for the unofficial
// ChatGPT web API. It exchanges a long-lived session token for short-lived
// access tokens, opens streamed conversation exchanges, and folds the
// incremental events into a final response string.
package client

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/AltairaLabs/chatgpt/errors"
	"github.com/AltairaLabs/chatgpt/httputil"
	"github.com/AltairaLabs/chatgpt/logger"
	"github.com/AltairaLabs/chatgpt/metrics"
	"github.com/AltairaLabs/chatgpt/tokencache"
	"github.com/AltairaLabs/chatgpt/types"
)

// HTTP constants
const (
	contentTypeHeader  = "Content-Type"
	applicationJSON    = "application/json"
	userAgentHeader    = "User-Agent"
	defaultUserAgent   = "chatgpt-go/1.0"
	sessionTokenCookie = "__Secure-next-auth.session-token"

	defaultAPIBaseURL     = "https://chat.openai.com/api"
	defaultBackendBaseURL = "https://chat.openai.com/backend-api"
)

const (
	// accessTokenCacheKey is the single fixed cache key for the access token.
	accessTokenCacheKey = "access-token"

	// DefaultAccessTokenTTL is how long a fetched access token is reused
	// before the next call hits the auth endpoint again. Deliberately far
	// shorter than real token lifetimes: a re-fetch-often policy, not the
	// token's true expiry.
	DefaultAccessTokenTTL = 10 * time.Second

	// refreshErrorCode is the remote error code indicating the session
	// token itself is no longer valid.
	refreshErrorCode = "RefreshAccessTokenError"
)

// Sentinel errors surfaced by the client.
var (
	// ErrNoCredential is returned by New when the session token is empty.
	ErrNoCredential = stderrors.New("session token is required")

	// ErrSessionExpired indicates the auth endpoint rejected the session
	// token with a refresh error code.
	ErrSessionExpired = stderrors.New("session token may have expired")

	// ErrStreamEnded indicates the conversation stream closed without the
	// completion sentinel, so no resolved response exists.
	ErrStreamEnded = stderrors.New("stream ended without completion sentinel")
)

// Client talks to the unofficial conversational web API on behalf of one
// session credential. It is safe for concurrent use; note however that
// concurrent token refreshes are not coalesced, each one may hit the
// network independently until the first result lands in the cache.
type Client struct {
	sessionToken   string
	apiBaseURL     string
	backendBaseURL string
	userAgent      string
	markdown       bool

	authClient   *http.Client
	streamClient *http.Client

	tokens   tokencache.Store
	tokenTTL time.Duration

	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithAPIBaseURL overrides the webapp-facing API base URL used for the
// auth-session exchange.
func WithAPIBaseURL(url string) Option {
	return func(c *Client) {
		c.apiBaseURL = url
	}
}

// WithBackendBaseURL overrides the backend API base URL used for the
// streamed conversation exchange.
func WithBackendBaseURL(url string) Option {
	return func(c *Client) {
		c.backendBaseURL = url
	}
}

// WithUserAgent sets the client identification string sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMarkdown preserves markdown markup in responses. By default responses
// are rendered to plain text.
func WithMarkdown() Option {
	return func(c *Client) {
		c.markdown = true
	}
}

// WithTokenStore replaces the in-memory access-token cache, e.g. with a
// Redis-backed store shared across processes.
func WithTokenStore(store tokencache.Store) Option {
	return func(c *Client) {
		if store != nil {
			c.tokens = store
		}
	}
}

// WithTokenTTL overrides how long fetched access tokens are cached.
func WithTokenTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.tokenTTL = ttl
		}
	}
}

// WithHTTPClients overrides the HTTP clients used for the auth exchange and
// the streamed conversation exchange.
func WithHTTPClients(auth, stream *http.Client) Option {
	return func(c *Client) {
		if auth != nil {
			c.authClient = auth
		}
		if stream != nil {
			c.streamClient = stream
		}
	}
}

// WithRateLimiter bounds the rate of outbound requests. Nil (the default)
// means no limiting.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// New creates a Client for the given session token.
// The session token is the long-lived credential; it is never sent
// anywhere except the auth-session exchange, as a cookie.
func New(sessionToken string, opts ...Option) (*Client, error) {
	if sessionToken == "" {
		return nil, errors.New("client", "New", ErrNoCredential)
	}

	c := &Client{
		sessionToken:   sessionToken,
		apiBaseURL:     defaultAPIBaseURL,
		backendBaseURL: defaultBackendBaseURL,
		userAgent:      defaultUserAgent,
		authClient:     httputil.NewHTTPClient(httputil.DefaultAuthTimeout),
		streamClient:   httputil.NewHTTPClient(httputil.DefaultStreamTimeout),
		tokens:         tokencache.NewMemoryStore(),
		tokenTTL:       DefaultAccessTokenTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// wait blocks on the configured rate limiter, if any.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// RefreshAccessToken returns a valid access token, hitting the auth
// endpoint only when the cached token has expired. Concurrent callers
// racing past an expired cache each fetch independently; the last write
// wins, which is harmless since every fetched token is valid.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, error) {
	if token, err := c.tokens.Get(ctx, accessTokenCacheKey); err == nil {
		metrics.RecordAuthRefresh("cached")
		return token, nil
	}

	token, err := c.fetchAccessToken(ctx)
	if err != nil {
		metrics.RecordAuthRefresh("error")
		return "", err
	}
	metrics.RecordAuthRefresh("fetched")

	if err := c.tokens.Set(ctx, accessTokenCacheKey, token, c.tokenTTL); err != nil {
		// A cache write failure only costs an extra fetch next time.
		logger.Warn("failed to cache access token", "error", err)
	}

	return token, nil
}

// fetchAccessToken performs the auth-session exchange using the session
// token as a cookie value.
func (c *Client) fetchAccessToken(ctx context.Context) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", errors.New("client", "RefreshAccessToken", err)
	}

	url := c.apiBaseURL + "/auth/session"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.New("client", "RefreshAccessToken", err)
	}

	req.Header.Set(userAgentHeader, c.userAgent)
	req.AddCookie(&http.Cookie{Name: sessionTokenCookie, Value: c.sessionToken})

	logger.APIRequest(http.MethodGet, url, map[string]string{
		userAgentHeader: c.userAgent,
		"Cookie":        sessionTokenCookie + "=***",
	}, nil)

	resp, err := c.authClient.Do(req)
	if err != nil {
		return "", errors.New("client", "RefreshAccessToken", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.New("client", "RefreshAccessToken", err)
	}

	logger.APIResponse(resp.StatusCode, string(body), nil)

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("client", "RefreshAccessToken",
			fmt.Errorf("auth request to %s failed: %s", url, http.StatusText(resp.StatusCode))).
			WithStatusCode(resp.StatusCode)
	}

	var result types.SessionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return "", errors.New("client", "RefreshAccessToken",
			fmt.Errorf("failed to parse auth response: %w", err))
	}

	if result.Error != "" {
		cause := fmt.Errorf("auth endpoint returned error code %q", result.Error)
		if result.Error == refreshErrorCode {
			cause = fmt.Errorf("%w (%s)", ErrSessionExpired, result.Error)
		}
		return "", errors.New("client", "RefreshAccessToken", cause).
			WithDetails(map[string]any{"code": result.Error})
	}

	if result.AccessToken == "" {
		return "", errors.New("client", "RefreshAccessToken",
			fmt.Errorf("auth response carried no access token"))
	}

	return result.AccessToken, nil
}

// IsAuthenticated reports whether the session token can currently be
// exchanged for an access token. Any refresh failure is converted to false.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	_, err := c.RefreshAccessToken(ctx)
	return err == nil
}

// EnsureAuth refreshes the access token and propagates any failure.
func (c *Client) EnsureAuth(ctx context.Context) error {
	_, err := c.RefreshAccessToken(ctx)
	return err
}
