// Package tokencache provides short-lived access-token storage for the client.
//
// The unofficial web API hands out access tokens that we deliberately re-fetch
// often, so the cache is a plain expiring key/value store: one fixed key, one
// value, per-entry deadline, no request coalescing. Implementations must be
// safe for concurrent use.
package tokencache

import (
	"context"
	"errors"
	"time"
)

// Store defines the interface for expiring token storage.
type Store interface {
	// Get retrieves a token by key. Returns ErrNotFound if the key is absent
	// or its entry has expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a token under key with the given time-to-live.
	// A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a token by key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// ErrNotFound is returned when a key is absent or its entry has expired.
var ErrNotFound = errors.New("token not found")

// ErrInvalidKey is returned when an empty key is provided.
var ErrInvalidKey = errors.New("invalid token key")
