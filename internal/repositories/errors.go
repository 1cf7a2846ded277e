package repositories

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when the email unique constraint rejects a write.
	ErrEmailTaken = errors.New("email already exists")
	// ErrUsernameTaken is returned when the username unique constraint rejects a write.
	ErrUsernameTaken = errors.New("username already exists")
)

const (
	usersEmailKey    = "users_email_key"
	usersUsernameKey = "users_username_key"
)

// uniqueViolation maps a unique-constraint failure on users to its sentinel.
// Any other error is returned unchanged.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case usersEmailKey:
		return ErrEmailTaken
	case usersUsernameKey:
		return ErrUsernameTaken
	}
	return err
}
