package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const nameKeyPrefix = "leo:name:"

// NameFetcher loads a member's display name from the chat platform.
type NameFetcher func(ctx context.Context, userID uint64) (string, error)

// NameCache resolves display names through Redis in front of the platform.
// Concurrent misses for the same member share a single fetch. A nil client disables caching.
type NameCache struct {
	client rueidis.Client
	fetch  NameFetcher
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewNameCache creates a name cache. client may be nil.
func NewNameCache(client rueidis.Client, fetch NameFetcher, ttl time.Duration, logger *zap.Logger) *NameCache {
	return &NameCache{
		client: client,
		fetch:  fetch,
		ttl:    ttl,
		logger: logger.Named("name_cache"),
	}
}

// Name returns the display name of a member.
func (c *NameCache) Name(ctx context.Context, userID uint64) (string, error) {
	key := nameKeyPrefix + strconv.FormatUint(userID, 10)

	if c.client != nil {
		name, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).ToString()
		switch {
		case err == nil:
			return name, nil
		case !rueidis.IsRedisNil(err):
			c.logger.Warn("Failed to read cached name", zap.Uint64("userID", userID), zap.Error(err))
		}
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		name, err := c.fetch(ctx, userID)
		if err != nil {
			return "", err
		}

		if c.client != nil {
			err := c.client.Do(ctx, c.client.B().Set().Key(key).Value(name).Ex(c.ttl).Build()).Error()
			if err != nil {
				c.logger.Warn("Failed to cache name", zap.Uint64("userID", userID), zap.Error(err))
			}
		}

		return name, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

// Forget drops a cached name so the next lookup refetches it.
func (c *NameCache) Forget(ctx context.Context, userID uint64) error {
	if c.client == nil {
		return nil
	}

	key := nameKeyPrefix + strconv.FormatUint(userID, 10)
	return c.client.Do(ctx, c.client.B().Del().Key(key).Build()).Error()
}
