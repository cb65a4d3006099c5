package cache

import (
	"context"
	"time"
)

const (
	// revokedKeyPrefix namespaces denylist entries in Redis.
	revokedKeyPrefix = "revoked:"
	// revokedValue is the fixed marker stored for a revoked token.
	revokedValue = "revoked"
)

// IsRevoked reports whether token is present in the denylist.
// Expired entries disappear on their own via the Redis TTL.
func (c *Cache) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := c.client.Exists(ctx, revokedKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// Revoke inserts token into the denylist with the given time-to-live.
// Re-revoking an already-present token overwrites the entry with the
// same value and resets its TTL.
func (c *Cache) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, revokedKeyPrefix+token, revokedValue, ttl).Err()
}
