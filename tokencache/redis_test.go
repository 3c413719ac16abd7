package tokencache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisStore creates a test Redis store with miniredis
func setupRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client, opts...)
	return store, mr
}

func TestRedisStore_GetNotFound(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_InvalidKey(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	err = store.Set(ctx, "", "value", time.Second)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestRedisStore_SetAndGet(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	err := store.Set(ctx, "access-token", "tok-abc", 10*time.Second)
	require.NoError(t, err)

	value, err := store.Get(ctx, "access-token")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", value)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	err := store.Set(ctx, "access-token", "tok-abc", 10*time.Second)
	require.NoError(t, err)

	// miniredis does not advance time on its own.
	mr.FastForward(11 * time.Second)

	_, err = store.Get(ctx, "access-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "access-token", "tok-abc", time.Minute))
	require.NoError(t, store.Delete(ctx, "access-token"))

	_, err := store.Get(ctx, "access-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	store, mr := setupRedisStore(t, WithPrefix("myapp"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "access-token", "tok-abc", time.Minute))

	// The raw Redis key carries the configured prefix.
	got, err := mr.Get("myapp:token:access-token")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", got)
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "access-token", "tok-abc", time.Minute))

	got, err := mr.Get("chatgpt:token:access-token")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", got)
}
