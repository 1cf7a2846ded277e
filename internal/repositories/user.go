package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/oops"
	"github.com/sbilibin2017/lms-accounts/internal/models"
)

const userColumns = `user_id, email, username, password_hash, is_active, is_admin, date_joined, last_login`

// redacted stands in for password hashes in query logs.
const redacted = "[redacted]"

// UserReadRepository reads users.
type UserReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserReadRepository(db *sqlx.DB, txGetter TxGetter) *UserReadRepository {
	return &UserReadRepository{db: db, txGetter: txGetter}
}

// GetByEmail returns the user with the given normalized email.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

// GetByID returns the user with the given id.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.get(ctx, query, userID)
}

func (r *UserReadRepository) get(ctx context.Context, query string, arg any) (*models.UserDB, error) {
	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, arg)

	logQuery(query, []any{arg}, user.UserID, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, oops.In("repositories").Code("USER_GET_FAILED").Wrap(err)
	}
	return &user, nil
}

// UserWriteRepository writes users.
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Create inserts a user. Uniqueness of email and username is enforced by the
// table constraints and reported as ErrEmailTaken or ErrUsernameTaken.
func (r *UserWriteRepository) Create(ctx context.Context, email, username, passwordHash string, isAdmin bool) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (email, username, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, email, username, passwordHash, isAdmin)

	logQuery(query, []any{email, username, redacted, isAdmin}, user.UserID, err)

	if err != nil {
		if mapped := uniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, oops.In("repositories").Code("USER_CREATE_FAILED").With("username", username).Wrap(err)
	}
	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2 WHERE user_id = $1`
	return r.update(ctx, query, []any{userID, passwordHash}, []any{userID, redacted})
}

// UpdateLastLogin records a successful login.
func (r *UserWriteRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE user_id = $1`
	return r.update(ctx, query, []any{userID, at}, []any{userID, at})
}

func (r *UserWriteRepository) update(ctx context.Context, query string, args, logArgs []any) error {
	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logQuery(query, logArgs, rowsAffected, err)

	if err != nil {
		return oops.In("repositories").Code("USER_UPDATE_FAILED").Wrap(err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
