// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"errors"
	"regexp"

	"github.com/authd/authd/internal/model"
)

// Request validation errors. These are rejected at the handler layer,
// before any service method runs.
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrWeakPassword     = errors.New("password must be at least 8 characters and contain a letter and a digit")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[A-Za-z]`)
	digitRegex  = regexp.MustCompile(`\d`)
)

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password_2"`
}

// Validate checks the registration fields.
func (r *RegisterRequest) Validate() error {
	if !emailRegex.MatchString(r.Email) {
		return ErrInvalidEmail
	}
	if len(r.Password) < 8 || !letterRegex.MatchString(r.Password) || !digitRegex.MatchString(r.Password) {
		return ErrWeakPassword
	}
	if r.Password2 != r.Password {
		return ErrPasswordMismatch
	}
	return nil
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// TokenResponse represents a successful login.
type TokenResponse struct {
	Access    string `json:"access"`
	TokenType string `json:"token_type"`
}

// LogoutResponse confirms a logout.
type LogoutResponse struct {
	Detail string `json:"detail"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:    user.ID,
		Email: user.Email,
	}
}
