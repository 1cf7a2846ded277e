package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/lms-accounts/internal/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresContainer(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Up(dsn))
	return db
}

func TestPostgres_UserLifecycle(t *testing.T) {
	db := setupPostgresContainer(t)
	ctx := context.Background()

	reader := NewUserReadRepository(db, nil)
	writer := NewUserWriteRepository(db, nil)

	created, err := writer.Create(ctx, "alice@example.com", "alice", "$2a$hash", false)
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsAdmin)
	assert.Nil(t, created.LastLogin)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := writer.Create(ctx, "alice@example.com", "alice2", "$2a$hash", false)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := writer.Create(ctx, "other@example.com", "alice", "$2a$hash", false)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("lookups", func(t *testing.T) {
		byEmail, err := reader.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.UserID, byEmail.UserID)

		byID, err := reader.GetByID(ctx, created.UserID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		_, err = reader.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("updates", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, writer.UpdateLastLogin(ctx, created.UserID, now))
		require.NoError(t, writer.UpdatePassword(ctx, created.UserID, "$2a$new"))

		user, err := reader.GetByID(ctx, created.UserID)
		require.NoError(t, err)
		assert.Equal(t, "$2a$new", user.PasswordHash)
		require.NotNil(t, user.LastLogin)
		assert.WithinDuration(t, now, *user.LastLogin, time.Millisecond)
	})

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, 1, count)
}

func TestPostgres_AuthTokens(t *testing.T) {
	db := setupPostgresContainer(t)
	ctx := context.Background()

	user, err := NewUserWriteRepository(db, nil).Create(ctx, "bob@example.com", "bob", "$2a$hash", false)
	require.NoError(t, err)

	tokens := NewAuthTokenRepository(db, nil)

	t.Run("concurrent get-or-create yields one token", func(t *testing.T) {
		const workers = 8
		keys := make([]string, workers)
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				keys[i], errs[i] = tokens.GetOrCreate(ctx, user.UserID)
			}(i)
		}
		wg.Wait()

		for i := 0; i < workers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, keys[0], keys[i])
		}

		var count int
		require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM auth_tokens WHERE user_id = $1", user.UserID))
		assert.Equal(t, 1, count)

		owner, err := tokens.GetUserID(ctx, keys[0])
		require.NoError(t, err)
		assert.Equal(t, user.UserID, owner)
	})

	t.Run("delete then recreate", func(t *testing.T) {
		first, err := tokens.GetOrCreate(ctx, user.UserID)
		require.NoError(t, err)

		deleted, err := tokens.DeleteByUserID(ctx, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, first, deleted)

		_, err = tokens.GetUserID(ctx, first)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = tokens.DeleteByUserID(ctx, user.UserID)
		assert.ErrorIs(t, err, ErrNotFound)

		second, err := tokens.GetOrCreate(ctx, user.UserID)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
