package tokenstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("TOKENSTORE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOKENSTORE_TEST_REDIS_ADDR is required for redis tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, nil, time.Minute)
}

func TestRedisStore_SaveLoadClear(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	deviceID := uuid.NewString()

	require.NoError(t, store.Save(ctx, deviceID, Tokens{Access: "a", Refresh: "r"}))

	got, err := store.Load(ctx, deviceID)
	require.NoError(t, err)
	assert.Equal(t, Tokens{Access: "a", Refresh: "r"}, got)

	require.NoError(t, store.Clear(ctx, deviceID))
	require.NoError(t, store.Clear(ctx, deviceID))

	got, err = store.Load(ctx, deviceID)
	require.NoError(t, err)
	assert.False(t, got.Present())
}
