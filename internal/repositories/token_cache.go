package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/lms-accounts/internal/logger"
)

// AuthTokenCacheRepository caches token key -> user id in Redis.
type AuthTokenCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewAuthTokenCacheRepository creates a cache whose entries live for expiration.
func NewAuthTokenCacheRepository(client *redis.Client, expiration time.Duration) *AuthTokenCacheRepository {
	return &AuthTokenCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func tokenCacheKey(key string) string {
	return fmt.Sprintf("auth_token:%s", key)
}

// Get returns the cached owner of key, or ErrNotFound on a miss.
func (r *AuthTokenCacheRepository) Get(ctx context.Context, key string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, tokenCacheKey(key)).Result()
	if err != nil {
		logger.Log.Debugw("token cache get", "hit", false, "error", err)
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		logger.Log.Warnw("token cache holds malformed user id", "value", val, "error", err)
		return uuid.Nil, err
	}

	logger.Log.Debugw("token cache get", "hit", true, "user_id", userID)
	return userID, nil
}

// Set caches the owner of key.
func (r *AuthTokenCacheRepository) Set(ctx context.Context, key string, userID uuid.UUID) error {
	err := r.client.Set(ctx, tokenCacheKey(key), userID.String(), r.exp).Err()
	logger.Log.Debugw("token cache set", "user_id", userID, "error", err)
	return err
}

// Delete evicts key.
func (r *AuthTokenCacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, tokenCacheKey(key)).Err()
	logger.Log.Debugw("token cache delete", "error", err)
	return err
}
