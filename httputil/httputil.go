// Package httputil provides shared HTTP client construction utilities
// for the chatgpt project. It centralizes timeout defaults and client
// creation so that every module uses consistent configuration.
package httputil

import (
	"net/http"
	"time"
)

// Standard timeout defaults used across the project.
const (
	// DefaultAuthTimeout is the HTTP timeout for the auth-session exchange.
	// This is a small JSON request and should complete quickly.
	DefaultAuthTimeout = 30 * time.Second

	// DefaultStreamTimeout is the HTTP timeout for the streamed conversation
	// exchange. Generation can take a while, so it uses a longer timeout;
	// callers needing tighter bounds should use a request context deadline.
	DefaultStreamTimeout = 5 * time.Minute
)

// NewHTTPClient returns an *http.Client configured with the given timeout.
// Pass one of the Default*Timeout constants, or a custom duration.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
