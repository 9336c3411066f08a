package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreadTTL bounds staleness if an invalidation is ever missed.
const unreadTTL = time.Hour

// RedisCache caches viewer-scoped unread counts. The database stays the
// source of truth; entries are invalidated whenever a message is written or
// marked read.
type RedisCache struct {
	Client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForUnread generates the Redis key for one viewer's unread count in one
// chat.
func (c *RedisCache) KeyForUnread(chatID, userID string) string {
	return fmt.Sprintf("unread:%s:%s", chatID, userID)
}

// GetUnreadCount returns the cached count and whether it was present.
func (c *RedisCache) GetUnreadCount(ctx context.Context, chatID, userID string) (int64, bool, error) {
	val, err := c.Client.Get(ctx, c.KeyForUnread(chatID, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// SetUnreadCount stores a fresh count with a TTL.
func (c *RedisCache) SetUnreadCount(ctx context.Context, chatID, userID string, count int64) error {
	return c.Client.Set(ctx, c.KeyForUnread(chatID, userID), count, unreadTTL).Err()
}

// InvalidateUnread drops cached counts for the given viewers of a chat.
func (c *RedisCache) InvalidateUnread(ctx context.Context, chatID string, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, c.KeyForUnread(chatID, id))
	}
	return c.Client.Del(ctx, keys...).Err()
}
