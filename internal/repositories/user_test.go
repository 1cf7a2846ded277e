package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var userRowColumns = []string{"user_id", "email", "username", "password_hash", "is_active", "is_admin", "date_joined", "last_login"}

func TestUserReadRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db, nil)
	ctx := context.Background()

	userID := uuid.New()
	joined := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(userID.String(), "alice@example.com", "alice", "$2a$hash", true, false, joined, nil))

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, userID, user.UserID)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.IsActive)
		assert.Nil(t, user.LastLogin)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, user)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WillReturnError(sql.ErrConnDone)

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db, nil)

	userID := uuid.New()
	lastLogin := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(userID.String(), "bob@example.com", "bob", "$2a$hash", true, true, lastLogin, lastLogin))

	user, err := repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	require.NotNil(t, user.LastLogin)
	assert.True(t, lastLogin.Equal(*user.LastLogin))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name      string
		err       error
		wantErr   error
		wantPgErr bool
	}{
		{name: "success"},
		{
			name:    "duplicate email",
			err:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
			wantErr: ErrEmailTaken,
		},
		{
			name:    "duplicate username",
			err:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"},
			wantErr: ErrUsernameTaken,
		},
		{
			name:      "other constraint",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "something_else"},
			wantPgErr: true,
		},
		{
			name:    "connection error",
			err:     sql.ErrConnDone,
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserWriteRepository(db, nil)

			exp := mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email, username, password_hash, is_admin)")).
				WithArgs("alice@example.com", "alice", "$2a$hash", false)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(sqlmock.NewRows(userRowColumns).
					AddRow(userID.String(), "alice@example.com", "alice", "$2a$hash", true, false, time.Now(), nil))
			}

			user, err := repo.Create(ctx, "alice@example.com", "alice", "$2a$hash", false)
			switch {
			case tt.wantPgErr:
				var pgErr *pgconn.PgError
				assert.True(t, errors.As(err, &pgErr))
				assert.NotErrorIs(t, err, ErrEmailTaken)
				assert.NotErrorIs(t, err, ErrUsernameTaken)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			default:
				require.NoError(t, err)
				assert.Equal(t, userID, user.UserID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserWriteRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = $2 WHERE user_id = $1")).
			WithArgs(userID, "$2a$new").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewUserWriteRepository(db, nil).UpdatePassword(ctx, userID, "$2a$new")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewUserWriteRepository(db, nil).UpdatePassword(ctx, userID, "$2a$new")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash")).
			WillReturnError(sql.ErrConnDone)

		err := NewUserWriteRepository(db, nil).UpdatePassword(ctx, userID, "$2a$new")
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestUserWriteRepository_UpdateLastLogin(t *testing.T) {
	db, mock := newMockDB(t)
	userID := uuid.New()
	at := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = $2 WHERE user_id = $1")).
		WithArgs(userID, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewUserWriteRepository(db, nil).UpdateLastLogin(context.Background(), userID, at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositories_UseTransactionFromContext(t *testing.T) {
	db, mock := newMockDB(t)
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	type txKey struct{}
	ctx := context.WithValue(context.Background(), txKey{}, tx)
	getter := func(ctx context.Context) *sqlx.Tx {
		tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
		return tx
	}

	repo := NewUserWriteRepository(db, getter)
	require.NoError(t, repo.UpdateLastLogin(ctx, userID, time.Now()))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
