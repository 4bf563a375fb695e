package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studymind/studymind-server/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNREAD NOTIFICATION COUNTER CACHE
// ══════════════════════════════════════════════════════════════════════════════

// unreadTTL keeps stale counters from living forever when a user goes
// inactive. The counter is re-primed from PostgreSQL on the next miss.
const unreadTTL = 12 * time.Hour

// UnreadCache caches per-user unread notification counts so the dashboard
// does not hit PostgreSQL on every poll.
type UnreadCache struct {
	client *redis.Client
}

// NewUnreadCache creates a new UnreadCache.
func NewUnreadCache(client *redis.Client) *UnreadCache {
	return &UnreadCache{client: client}
}

func (c *UnreadCache) key(userID user.ID) string {
	return PrefixUnreadCount + userID.String()
}

// Get returns the cached count, or ErrKeyNotFound on a miss.
func (c *UnreadCache) Get(ctx context.Context, userID user.ID) (int, error) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrKeyNotFound
		}
		return 0, fmt.Errorf("unread cache: get: %w", err)
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		// Corrupt value; treat as a miss so it gets re-primed.
		_ = c.client.Del(ctx, c.key(userID)).Err()
		return 0, ErrKeyNotFound
	}
	return count, nil
}

// Set stores the count with the cache TTL.
func (c *UnreadCache) Set(ctx context.Context, userID user.ID, count int) error {
	if err := c.client.Set(ctx, c.key(userID), count, unreadTTL).Err(); err != nil {
		return fmt.Errorf("unread cache: set: %w", err)
	}
	return nil
}

// Increment bumps the counter after a new notification. A miss is left
// alone; the next Get will re-prime from the source of truth.
func (c *UnreadCache) Increment(ctx context.Context, userID user.ID) error {
	exists, err := c.client.Exists(ctx, c.key(userID)).Result()
	if err != nil || exists == 0 {
		return err
	}
	if err := c.client.Incr(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("unread cache: incr: %w", err)
	}
	return nil
}

// Invalidate drops the counter, forcing a re-prime on next read.
func (c *UnreadCache) Invalidate(ctx context.Context, userID user.ID) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("unread cache: invalidate: %w", err)
	}
	return nil
}
