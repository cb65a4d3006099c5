//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/authd/authd/internal/testutil"
)

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx := context.Background()

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect to Redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return ctx, c
}

func uniqueToken(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestIntegrationRevocation_RoundTrip(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	token := uniqueToken("roundtrip")

	revoked, err := c.IsRevoked(ctx, token)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("fresh token should not be revoked")
	}

	if err := c.Revoke(ctx, token, time.Minute); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err = c.IsRevoked(ctx, token)
	if err != nil {
		t.Fatalf("IsRevoked after revoke: %v", err)
	}
	if !revoked {
		t.Error("expected token to be revoked")
	}
}

func TestIntegrationRevocation_EntryExpires(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	token := uniqueToken("expiry")

	if err := c.Revoke(ctx, token, 100*time.Millisecond); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	revoked, err := c.IsRevoked(ctx, token)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("expected denylist entry to expire with its TTL")
	}
}

func TestIntegrationRevocation_DoubleRevokeOverwrites(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	token := uniqueToken("double")

	if err := c.Revoke(ctx, token, time.Minute); err != nil {
		t.Fatalf("first Revoke: %v", err)
	}
	if err := c.Revoke(ctx, token, time.Minute); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}

	revoked, err := c.IsRevoked(ctx, token)
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected token to remain revoked after overwrite")
	}
}
