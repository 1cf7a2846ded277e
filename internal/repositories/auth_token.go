package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/oops"
)

// tokenKeyBytes yields 40 hex characters.
const tokenKeyBytes = 20

// AuthTokenRepository stores one opaque auth token per user.
type AuthTokenRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
	newKey   func() (string, error)
}

func NewAuthTokenRepository(db *sqlx.DB, txGetter TxGetter) *AuthTokenRepository {
	return &AuthTokenRepository{db: db, txGetter: txGetter, newKey: newTokenKey}
}

// GetOrCreate returns the user's token, creating it if absent. The upsert is a
// single statement, so concurrent callers for the same user get the same key.
func (r *AuthTokenRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (string, error) {
	const query = `
		INSERT INTO auth_tokens (key, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING key
	`

	candidate, err := r.newKey()
	if err != nil {
		return "", oops.In("repositories").Code("TOKEN_KEY_FAILED").Wrap(err)
	}

	var key string
	err = sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &key, query, candidate, userID)

	logQuery(query, []any{userID}, key != "", err)

	if err != nil {
		return "", oops.In("repositories").Code("TOKEN_UPSERT_FAILED").With("user_id", userID).Wrap(err)
	}
	return key, nil
}

// GetUserID resolves a token key to its owner.
func (r *AuthTokenRepository) GetUserID(ctx context.Context, key string) (uuid.UUID, error) {
	const query = `SELECT user_id FROM auth_tokens WHERE key = $1`

	var userID uuid.UUID
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &userID, query, key)

	logQuery(query, []any{redacted}, userID, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, oops.In("repositories").Code("TOKEN_GET_FAILED").Wrap(err)
	}
	return userID, nil
}

// DeleteByUserID removes the user's token and returns the deleted key.
func (r *AuthTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (string, error) {
	const query = `DELETE FROM auth_tokens WHERE user_id = $1 RETURNING key`

	var key string
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &key, query, userID)

	logQuery(query, []any{userID}, key != "", err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", oops.In("repositories").Code("TOKEN_DELETE_FAILED").With("user_id", userID).Wrap(err)
	}
	return key, nil
}

func newTokenKey() (string, error) {
	buf := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
