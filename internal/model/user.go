// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account. HashPassword holds the bcrypt
// hash of the credential and is never serialized or logged.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	HashPassword string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
