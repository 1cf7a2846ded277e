package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthTokenDB represents an issued auth token. A user owns at most one.
type AuthTokenDB struct {
	Key       string    `db:"key"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
