// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/authd/authd/internal/auth"
	"github.com/authd/authd/internal/metrics"
	"github.com/authd/authd/internal/model"
	"github.com/authd/authd/internal/repository"
	"github.com/authd/authd/internal/token"
)

// Service errors.
var (
	ErrEmailTaken = errors.New("email already exists")
	// ErrPersistence marks a storage-level failure, including losing the
	// race on the email unique constraint after the pre-check passed.
	ErrPersistence = errors.New("could not persist user")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password. The two cases must stay indistinguishable to callers.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrUnauthorized merges all token validation failures at the service
	// boundary; the underlying kind stays wrapped for logs and tests.
	ErrUnauthorized     = errors.New("could not validate credentials")
	ErrAlreadyLoggedOut = errors.New("already logged out")
	ErrWrongTokenClass  = errors.New("not an access token")
)

// UserStore is the credential store the service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// TokenService issues, validates and revokes access tokens.
type TokenService interface {
	Issue(subject string) (string, error)
	Validate(ctx context.Context, tokenString string) (string, error)
	Revoke(ctx context.Context, tokenString string) error
}

// UserService orchestrates registration, login, token-protected lookup
// and logout over the credential store and the token service.
type UserService struct {
	store   UserStore
	tokens  TokenService
	hasher  auth.Hasher
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewUserService creates a UserService.
func NewUserService(store UserStore, tokens TokenService, hasher auth.Hasher, logger *slog.Logger, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		tokens:  tokens,
		hasher:  hasher,
		logger:  logger,
		metrics: recorder,
	}
}

// Register creates a new user with a hashed password.
// The existence pre-check only produces the nicer ErrEmailTaken; the
// unique constraint in the store is what actually prevents duplicates
// under concurrency, and losing that race surfaces as ErrPersistence.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		HashPassword: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		s.logger.Warn("user creation failed", "email", email, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.metrics.IncRegistration()
	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			s.logger.Warn("login failed", "email", email, "reason", "unknown_email")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Compare(user.HashPassword, password) {
		s.metrics.IncLoginFailure()
		s.logger.Warn("login failed", "email", email, "reason", "wrong_password")
		return "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()
	s.metrics.IncTokenIssued()
	s.logger.Info("login successful", "user_id", user.ID)
	return access, nil
}

// CurrentUser resolves a presented token to its user.
func (s *UserService) CurrentUser(ctx context.Context, tokenString string) (*model.User, error) {
	subject, err := s.tokens.Validate(ctx, tokenString)
	if err != nil {
		kind := failureKind(err)
		if kind == "" {
			// Store or signing failure, not a rejection of the token.
			return nil, fmt.Errorf("validate token: %w", err)
		}
		s.metrics.IncValidationFailure(kind)
		s.logger.Warn("token rejected", "reason", kind)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := s.store.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Subject no longer exists; the token proves nothing.
			return nil, fmt.Errorf("%w: subject not found", ErrUnauthorized)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}

// Logout revokes the presented token.
func (s *UserService) Logout(ctx context.Context, tokenString string) error {
	err := s.tokens.Revoke(ctx, tokenString)
	switch {
	case err == nil:
		s.metrics.IncTokenRevoked()
		s.logger.Info("token revoked")
		return nil
	case errors.Is(err, token.ErrAlreadyRevoked):
		return fmt.Errorf("%w: %w", ErrAlreadyLoggedOut, err)
	case errors.Is(err, token.ErrWrongTokenClass):
		return fmt.Errorf("%w: %w", ErrWrongTokenClass, err)
	case errors.Is(err, token.ErrMalformed), errors.Is(err, token.ErrMissingClaims):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	default:
		return fmt.Errorf("revoke token: %w", err)
	}
}

// failureKind maps token validation errors to metric labels. An empty
// string means the error was not a token rejection.
func failureKind(err error) string {
	switch {
	case errors.Is(err, token.ErrRevoked):
		return "revoked"
	case errors.Is(err, token.ErrMalformed):
		return "malformed"
	case errors.Is(err, token.ErrMissingClaims):
		return "missing_claims"
	case errors.Is(err, token.ErrWrongTokenClass):
		return "wrong_class"
	default:
		return ""
	}
}
