package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SnapshotCache implements ports.SnapshotCache using Redis. It caches the
// wallet snapshot projection on the read path; mutating operations
// invalidate after commit, so staleness is bounded by the TTL.
type SnapshotCache struct {
	client *goredis.Client
	prefix string
}

// NewSnapshotCache creates a new Redis-backed snapshot cache.
func NewSnapshotCache(client *goredis.Client) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		prefix: "wallet_snapshot:",
	}
}

// Get retrieves a cached snapshot by user ID.
// Returns nil, nil if the key does not exist.
func (c *SnapshotCache) Get(ctx context.Context, userID string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis snapshot get: %w", err)
	}
	return val, nil
}

// Set stores a snapshot in the cache with TTL.
func (c *SnapshotCache) Set(ctx context.Context, userID string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+userID, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis snapshot set: %w", err)
	}
	return nil
}

// Invalidate drops a cached snapshot after a wallet mutation commits.
func (c *SnapshotCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.prefix+userID).Err(); err != nil {
		return fmt.Errorf("redis snapshot invalidate: %w", err)
	}
	return nil
}
