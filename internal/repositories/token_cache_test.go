package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestAuthTokenCacheRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	repo := NewAuthTokenCacheRepository(rdb, 2*time.Second)

	t.Run("set, get, delete", func(t *testing.T) {
		userID := uuid.New()

		require.NoError(t, repo.Set(ctx, "key-1", userID))

		got, err := repo.Get(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, userID, got)

		require.NoError(t, repo.Delete(ctx, "key-1"))

		_, err = repo.Get(ctx, "key-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("miss", func(t *testing.T) {
		_, err := repo.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed value", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "auth_token:bad", "not-a-uuid", 0).Err())
		_, err := repo.Get(ctx, "bad")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("entries expire", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "key-2", uuid.New()))
		time.Sleep(3 * time.Second)

		_, err := repo.Get(ctx, "key-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
