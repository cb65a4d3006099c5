package token

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "unit-test-secret"
	testMarker = "access"
)

// fakeStore is an in-memory RevocationStore for tests.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]time.Duration
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]time.Duration)}
}

func (f *fakeStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.entries[token]
	return ok, nil
}

func (f *fakeStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries[token] = ttl
	return nil
}

func newTestService(t *testing.T, store RevocationStore) *Service {
	t.Helper()
	svc, err := NewService([]byte(testSecret), "HS256", testMarker, 30*time.Minute, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

// signRaw builds a token with arbitrary claims using the test secret.
func signRaw(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign raw token: %v", err)
	}
	return signed
}

func TestNewService_Errors(t *testing.T) {
	store := newFakeStore()

	tests := []struct {
		name      string
		secret    []byte
		algorithm string
	}{
		{"empty_secret", nil, "HS256"},
		{"unknown_algorithm", []byte("s"), "HS999"},
		{"non_hmac_algorithm", []byte("s"), "RS256"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewService(tt.secret, tt.algorithm, testMarker, time.Minute, store); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	signed, err := svc.Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	subject, err := svc.Validate(context.Background(), signed)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if subject != "a@b.com" {
		t.Errorf("expected subject a@b.com, got %q", subject)
	}
}

func TestValidate_Revoked(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	signed, err := svc.Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := svc.Revoke(context.Background(), signed); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if _, err := svc.Validate(context.Background(), signed); !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	signed, err := svc.IssueWithTTL("a@b.com", -1*time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL: %v", err)
	}

	if _, err := svc.Validate(context.Background(), signed); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for expired token, got %v", err)
	}
}

func TestValidate_ClaimErrors(t *testing.T) {
	svc := newTestService(t, newFakeStore())
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "garbage",
			token:   "not-a-jwt",
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong_secret",
			token:   mustSign(t, jwt.MapClaims{"sub": "a@b.com", "at": testMarker, "exp": exp}, "other-secret"),
			wantErr: ErrMalformed,
		},
		{
			name:    "missing_subject",
			token:   signRaw(t, jwt.MapClaims{"at": testMarker, "exp": exp}),
			wantErr: ErrMissingClaims,
		},
		{
			name:    "missing_class",
			token:   signRaw(t, jwt.MapClaims{"sub": "a@b.com", "exp": exp}),
			wantErr: ErrMissingClaims,
		},
		{
			name:    "wrong_class",
			token:   signRaw(t, jwt.MapClaims{"sub": "a@b.com", "at": "refresh", "exp": exp}),
			wantErr: ErrWrongTokenClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(context.Background(), tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func mustSign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRevoke_AlreadyRevoked(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	signed, err := svc.Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := svc.Revoke(context.Background(), signed); err != nil {
		t.Fatalf("first Revoke: %v", err)
	}

	if err := svc.Revoke(context.Background(), signed); !errors.Is(err, ErrAlreadyRevoked) {
		t.Fatalf("expected ErrAlreadyRevoked, got %v", err)
	}
}

func TestRevoke_RejectsBadTokens(t *testing.T) {
	svc := newTestService(t, newFakeStore())
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"garbage", "not-a-jwt", ErrMalformed},
		{"wrong_class", signRaw(t, jwt.MapClaims{"sub": "a@b.com", "at": "refresh", "exp": exp}), ErrWrongTokenClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Revoke(context.Background(), tt.token); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRevoke_UsesConfiguredTTL(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	// Issue with a short remaining lifetime; the revocation entry still
	// uses the full configured TTL.
	signed, err := svc.IssueWithTTL("a@b.com", time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL: %v", err)
	}

	if err := svc.Revoke(context.Background(), signed); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if got := store.entries[signed]; got != 30*time.Minute {
		t.Errorf("expected revocation TTL 30m, got %s", got)
	}
}

func TestValidate_StoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("redis down")
	svc := newTestService(t, store)

	signed, err := svc.Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := svc.Validate(context.Background(), signed); err == nil {
		t.Fatal("expected store error to propagate, got nil")
	}
}
