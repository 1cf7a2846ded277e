package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID  `db:"user_id"`       // Primary key
	Email        string     `db:"email"`         // Unique, normalized email
	Username     string     `db:"username"`      // Unique username
	PasswordHash string     `db:"password_hash"` // bcrypt hash, never serialized
	IsActive     bool       `db:"is_active"`
	IsAdmin      bool       `db:"is_admin"`
	DateJoined   time.Time  `db:"date_joined"`
	LastLogin    *time.Time `db:"last_login"` // nil until the first successful login
}

// Public returns the projection of the user that is safe to expose.
func (u *UserDB) Public() UserPublic {
	return UserPublic{
		ID:       u.UserID,
		Email:    u.Email,
		Username: u.Username,
	}
}

// UserPublic is the user as returned by the API
// swagger:model UserPublic
type UserPublic struct {
	// User ID
	// example: 5f0c6a8e-6b1e-4a43-9f7e-0d7c1b2a3c4d
	ID uuid.UUID `json:"id"`

	// Email
	// example: alice@example.com
	Email string `json:"email"`

	// Username
	// example: alice
	Username string `json:"username"`
}
