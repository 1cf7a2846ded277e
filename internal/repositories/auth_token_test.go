package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenKey(t *testing.T) {
	a, err := newTokenKey()
	require.NoError(t, err)
	b, err := newTokenKey()
	require.NoError(t, err)

	assert.Len(t, a, 40)
	assert.Regexp(t, "^[0-9a-f]{40}$", a)
	assert.NotEqual(t, a, b)
}

func TestAuthTokenRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns stored key", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAuthTokenRepository(db, nil)
		repo.newKey = func() (string, error) { return "candidate", nil }

		mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE")).
			WithArgs("candidate", userID).
			WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("existing"))

		key, err := repo.GetOrCreate(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "existing", key)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("key generation fails", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewAuthTokenRepository(db, nil)
		repo.newKey = func() (string, error) { return "", errors.New("entropy") }

		key, err := repo.GetOrCreate(ctx, userID)
		assert.Error(t, err)
		assert.Empty(t, key)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAuthTokenRepository(db, nil)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO auth_tokens")).WillReturnError(sql.ErrConnDone)

		key, err := repo.GetOrCreate(ctx, userID)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Empty(t, key)
	})
}

func TestAuthTokenRepository_GetUserID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	db, mock := newMockDB(t)
	repo := NewAuthTokenRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM auth_tokens WHERE key = $1")).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID.String()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM auth_tokens WHERE key = $1")).
		WithArgs("k2").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetUserID(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	got, err = repo.GetUserID(ctx, "k2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, uuid.Nil, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthTokenRepository_DeleteByUserID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	db, mock := newMockDB(t)
	repo := NewAuthTokenRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM auth_tokens WHERE user_id = $1 RETURNING key")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("k1"))
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM auth_tokens")).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	key, err := repo.DeleteByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "k1", key)

	_, err = repo.DeleteByUserID(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
