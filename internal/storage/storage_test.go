package storage

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires Redis on localhost:6379, skipped otherwise
const testRedisAddr = "localhost:6379"

// exerciseKV runs the shared contract against any KV implementation
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	require.NoError(t, kv.Set(ctx, "k", "v2"))
	got, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, kv.Delete(ctx, "k"))
}

func TestMemory(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	kv := NewRedis(client, "taskman-test:")
	t.Cleanup(func() {
		_ = kv.Delete(ctx, "k")
		_ = kv.Close()
	})

	exerciseKV(t, kv)
}
