// Package token implements issuance, validation and revocation of
// signed access tokens.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation and revocation errors. Callers at the HTTP boundary are
// expected to collapse these into a single unauthorized response; the
// distinct kinds exist for logging and tests.
var (
	ErrRevoked         = errors.New("token has been revoked")
	ErrMalformed       = errors.New("token is malformed or has an invalid signature")
	ErrMissingClaims   = errors.New("token is missing required claims")
	ErrWrongTokenClass = errors.New("token is not an access token")
	ErrAlreadyRevoked  = errors.New("token is already revoked")
)

// RevocationStore records revoked tokens with an expiry. Entries are
// keyed by the raw token string and must not outlive the token itself.
type RevocationStore interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// accessClaims is the claim set carried by every access token.
// TokenClass distinguishes access tokens from any other token kind
// signed with the same secret.
type accessClaims struct {
	TokenClass string `json:"at,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies access tokens against a shared secret
// and checks presented tokens against the revocation store.
type Service struct {
	secret      []byte
	method      jwt.SigningMethod
	marker      string
	ttl         time.Duration
	revocations RevocationStore
}

// NewService creates a token Service. algorithm must name an HMAC
// signing method (HS256/HS384/HS512); marker is the access-token class
// value written into the "at" claim; ttl is the access-token lifetime.
func NewService(secret []byte, algorithm, marker string, ttl time.Duration, revocations RevocationStore) (*Service, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("algorithm %q is not an HMAC method", algorithm)
	}
	if len(secret) == 0 {
		return nil, errors.New("signing secret must not be empty")
	}

	return &Service{
		secret:      secret,
		method:      method,
		marker:      marker,
		ttl:         ttl,
		revocations: revocations,
	}, nil
}

// TTL returns the configured access-token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new access token for subject with the configured lifetime.
func (s *Service) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL signs a new access token with an explicit lifetime.
func (s *Service) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accessClaims{
		TokenClass: s.marker,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks a presented token and returns its subject.
// The revocation store is consulted before any cryptographic work so a
// revoked token fails even while its signature is still valid. Expiry
// is enforced by the claim check during parsing.
func (s *Service) Validate(ctx context.Context, tokenString string) (string, error) {
	revoked, err := s.revocations.IsRevoked(ctx, tokenString)
	if err != nil {
		return "", fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return "", ErrRevoked
	}

	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Subject == "" || claims.TokenClass == "" {
		return "", ErrMissingClaims
	}
	if claims.TokenClass != s.marker {
		return "", ErrWrongTokenClass
	}

	return claims.Subject, nil
}

// Revoke inserts a token into the revocation store. The entry's expiry
// equals the configured access-token lifetime rather than the token's
// remaining validity, so an entry never outlives the token it revokes.
func (s *Service) Revoke(ctx context.Context, tokenString string) error {
	revoked, err := s.revocations.IsRevoked(ctx, tokenString)
	if err != nil {
		return fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return ErrAlreadyRevoked
	}

	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if claims.TokenClass != s.marker {
		return ErrWrongTokenClass
	}

	// Two concurrent revokes of the same token may both reach this
	// write; the second is a same-value overwrite and is harmless.
	if err := s.revocations.Revoke(ctx, tokenString, s.ttl); err != nil {
		return fmt.Errorf("store revocation: %w", err)
	}
	return nil
}

// parse verifies the signature and standard claims (including exp) and
// decodes the claim set. Any failure is reported as ErrMalformed.
func (s *Service) parse(tokenString string) (*accessClaims, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
