package helpers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const badgeTTL = 30 * time.Second

// BadgeCache keeps per-user unread notification counts in Redis so the badge
// endpoint does not hit Mongo on every poll. Entries are short-lived and
// invalidated on every feed write.
type BadgeCache struct {
	client *redis.Client
}

func NewBadgeCache(redisURL string) (*BadgeCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &BadgeCache{client: client}, nil
}

func badgeKey(userID string) string {
	return "badge:unread:" + userID
}

// GetUnreadCount returns the cached count and whether it was present.
func (b *BadgeCache) GetUnreadCount(ctx context.Context, userID string) (int64, bool) {
	val, err := b.client.Get(ctx, badgeKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (b *BadgeCache) SetUnreadCount(ctx context.Context, userID string, count int64) {
	_ = b.client.Set(ctx, badgeKey(userID), strconv.FormatInt(count, 10), badgeTTL).Err()
}

// Invalidate drops the cached count after a feed write.
func (b *BadgeCache) Invalidate(ctx context.Context, userID string) {
	_ = b.client.Del(ctx, badgeKey(userID)).Err()
}

func (b *BadgeCache) Close() error {
	return b.client.Close()
}
