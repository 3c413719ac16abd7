package tokencache

import (
	"context"
	"sync"
	"time"
)

// entry holds a cached token plus its expiry deadline.
// A zero deadline means the entry never expires.
type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore provides an in-memory implementation of the Store interface.
// It is thread-safe and suitable for single-process deployments.
// For sharing tokens across processes, use RedisStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	// now is the clock used for expiry checks; injectable for tests.
	now func() time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the store's clock. Tests use this to make expiry
// deterministic instead of sleeping.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory token store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves a token by key. Expired entries are removed lazily on access.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	s.mu.RLock()
	e, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		return "", ErrNotFound
	}

	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		// Expired: remove under write lock, re-checking in case of a
		// concurrent overwrite with a fresher deadline.
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return "", ErrNotFound
	}

	return e.value, nil
}

// Set stores a token under key, overwriting any previous entry.
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()

	return nil
}

// Delete removes a token by key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	return nil
}
