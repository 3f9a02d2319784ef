package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces revocation entries in a shared Redis.
const keyPrefix = "pos:revoked:"

// RedisCache implements Cache on go-redis. Entries expire with the token they describe.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache returns a Cache backed by client. Callers without Redis pass no cache to the store instead.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// MarkRevoked records fingerprint as revoked for ttl. Non-positive ttl is a no-op since the token is already dead.
func (c *RedisCache) MarkRevoked(ctx context.Context, fingerprint string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, cacheKey(fingerprint), "1", ttl).Err()
}

// IsRevoked reports whether fingerprint is cached as revoked. A miss means "ask Postgres", not "valid".
func (c *RedisCache) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	n, err := c.client.Exists(ctx, cacheKey(fingerprint)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func cacheKey(fingerprint string) string {
	return keyPrefix + fingerprint
}
