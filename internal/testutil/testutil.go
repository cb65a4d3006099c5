// Package testutil provides helpers shared by tests.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/authd/authd/internal/model"
	"github.com/authd/authd/internal/repository"
	"github.com/redis/go-redis/v9"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// MemoryUserStore is an in-memory credential store implementing the
// same contract as repository.Repository's user methods.
type MemoryUserStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int64
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

// CreateUser stores a user, assigning an ID and creation time.
func (m *MemoryUserStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrEmailExists
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.Email] = &stored
	return nil
}

// GetUserByEmail retrieves a user by email.
func (m *MemoryUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByID retrieves a user by ID.
func (m *MemoryUserStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// MemoryRevocationStore is an in-memory token denylist honoring TTLs.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryRevocationStore creates an empty MemoryRevocationStore.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{entries: make(map[string]time.Time)}
}

// IsRevoked reports whether token is present and unexpired.
func (m *MemoryRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.entries[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(m.entries, token)
		return false, nil
	}
	return true, nil
}

// Revoke records token with the given time-to-live.
func (m *MemoryRevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[token] = time.Now().Add(ttl)
	return nil
}
