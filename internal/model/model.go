// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account. The password hash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`       // UUIDv7, time-ordered
	Username     string    `json:"username"` // unique
	Email        string    `json:"email"`    // unique
	PasswordHash string    `json:"-"`        // bcrypt digest, never serialized
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Todo is a single user-owned task record.
type Todo struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"` // FK -> users.id, scopes every query
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TokenPair collects a freshly issued access/refresh pair.
// Pairs are derived on demand and never persisted.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"` // access token expiry (for diagnostics)
}

// AuthResult is what register/login/refresh hand back to the transport layer.
type AuthResult struct {
	Tokens TokenPair `json:"tokens"`
	User   User      `json:"user"`
}
