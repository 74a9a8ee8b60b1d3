package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds unread counters so the badge polling endpoints stay off the
// database. A miss falls back to Postgres; the server remains the single
// source of truth and every write path invalidates.
type Cache interface {
	GetUnread(ctx context.Context, key string) (int64, bool, error)
	SetUnread(ctx context.Context, key string, count int64) error
	Invalidate(ctx context.Context, keys ...string) error
}

const unreadTTL = 60 * time.Second

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) GetUnread(ctx context.Context, key string) (int64, bool, error) {
	count, err := c.rdb.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("notification: cache get: %w", err)
	}
	return count, true, nil
}

func (c *RedisCache) SetUnread(ctx context.Context, key string, count int64) error {
	if err := c.rdb.Set(ctx, key, count, unreadTTL).Err(); err != nil {
		return fmt.Errorf("notification: cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("notification: cache invalidate: %w", err)
	}
	return nil
}

func adminUnreadKey() string             { return "notif:unread:admin" }
func userUnreadKey(userID string) string { return "notif:unread:user:" + userID }
