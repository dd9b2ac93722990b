// Package locker provides the Redis-backed per-user sync lock.
package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/priyankc/PersonalAssistantBackend/core/port/out"

	"github.com/redis/go-redis/v9"
)

// RedisLock serializes sync runs per user with SET NX and a TTL. The TTL is a
// safety net: a crashed run releases the lock after at most one TTL.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLock creates a Redis sync lock.
func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisLock{client: client, ttl: ttl}
}

func lockKey(userID string) string {
	return fmt.Sprintf("sync:lock:%s", userID)
}

// Acquire takes the lock for the user. Returns false when another run holds
// it.
func (l *RedisLock) Acquire(ctx context.Context, userID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(userID), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sync lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock. Safe to call after expiry.
func (l *RedisLock) Release(ctx context.Context, userID string) error {
	if err := l.client.Del(ctx, lockKey(userID)).Err(); err != nil {
		return fmt.Errorf("release sync lock: %w", err)
	}
	return nil
}

// Ensure RedisLock implements out.SyncLock.
var _ out.SyncLock = (*RedisLock)(nil)
