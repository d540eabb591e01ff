// Package cache offers an optional store for downloaded market data so
// repeated runs within a session do not re-hit the upstream API.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the narrow contract the providers consult. A miss is an error from
// Get; callers fall through to the network on any error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
}

// RedisStore backs the cache with Redis.
type RedisStore struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedis connects a Redis-backed store. ttl is the default expiry applied
// when Set is called with ttl 0.
func NewRedis(addr string, db int, ttl time.Duration) *RedisStore {
	return &RedisStore{
		c:   redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl: ttl,
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	return r.c.Get(ctx, key).Result()
}

func (r *RedisStore) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.ttl
	}
	return r.c.Set(ctx, key, val, ttl).Err()
}

// Ping verifies connectivity; callers disable caching when it fails.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}
