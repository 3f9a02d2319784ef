package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestCacheKey(t *testing.T) {
	if got := cacheKey("abc"); got != "pos:revoked:abc" {
		t.Errorf("cacheKey = %q, want %q", got, "pos:revoked:abc")
	}
}

func TestRedisCache_MarkRevokedNonPositiveTTL(t *testing.T) {
	// Points at a closed port; a non-positive TTL must return before any network call.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := NewRedisCache(client)
	for _, ttl := range []time.Duration{0, -time.Second} {
		if err := c.MarkRevoked(context.Background(), "fp", ttl); err != nil {
			t.Errorf("MarkRevoked ttl=%v: %v", ttl, err)
		}
	}
}

func TestRedisCache_UnreachableReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := NewRedisCache(client)
	if _, err := c.IsRevoked(context.Background(), "fp"); err == nil {
		t.Error("IsRevoked against an unreachable Redis should fail")
	}
}
