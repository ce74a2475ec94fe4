package redis_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/leo/internal/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupClient(t *testing.T) (*miniredis.Miniredis, rueidis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return mr, client
}

func TestNameCacheCachesFetchedNames(t *testing.T) {
	t.Parallel()

	mr, client := setupClient(t)

	var calls atomic.Int32
	cache := redis.NewNameCache(client, func(_ context.Context, userID uint64) (string, error) {
		calls.Add(1)
		return "Alice", nil
	}, time.Hour, zap.NewNop())

	name, err := cache.Name(t.Context(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	name, err = cache.Name(t.Context(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	assert.EqualValues(t, 1, calls.Load())

	stored, err := mr.Get("leo:name:42")
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored)
	assert.Equal(t, time.Hour, mr.TTL("leo:name:42"))

	require.NoError(t, cache.Forget(t.Context(), 42))
	assert.False(t, mr.Exists("leo:name:42"))
}

func TestNameCacheFetchError(t *testing.T) {
	t.Parallel()

	mr, client := setupClient(t)

	fetchErr := errors.New("unknown user")
	cache := redis.NewNameCache(client, func(context.Context, uint64) (string, error) {
		return "", fetchErr
	}, time.Hour, zap.NewNop())

	_, err := cache.Name(t.Context(), 7)
	require.ErrorIs(t, err, fetchErr)
	assert.False(t, mr.Exists("leo:name:7"))
}

func TestNameCacheSharesConcurrentMisses(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	var calls atomic.Int32
	cache := redis.NewNameCache(nil, func(context.Context, uint64) (string, error) {
		calls.Add(1)
		<-release
		return "Bob", nil
	}, time.Hour, zap.NewNop())

	var wg sync.WaitGroup
	results := make([]string, 5)

	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, err := cache.Name(context.Background(), 9)
			assert.NoError(t, err)
			results[i] = name
		}()
	}

	// Give the goroutines time to join the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, name := range results {
		assert.Equal(t, "Bob", name)
	}
	assert.LessOrEqual(t, calls.Load(), int32(5))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
