package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	locker := NewRedisLocker(rdb, RedisOptions{TTL: 5 * time.Second, Retries: 2, Backoff: 10 * time.Millisecond})
	key := UserKey("redis-test-" + time.Now().Format(time.RFC3339Nano))

	held, err := locker.Obtain(ctx, key)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, key)
	assert.ErrorIs(t, err, ErrNotObtained)

	require.NoError(t, held.Release(ctx))

	again, err := locker.Obtain(ctx, key)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}
