package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/lms-accounts/internal/logger"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/sbilibin2017/lms-accounts/internal/repositories"
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, email, username, passwordHash string, isAdmin bool) (*models.UserDB, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// AuthTokenStore persists the single auth token of each user.
type AuthTokenStore interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (string, error)
	GetUserID(ctx context.Context, key string) (uuid.UUID, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (string, error)
}

// AuthTokenCache caches token key -> user id.
type AuthTokenCache interface {
	Get(ctx context.Context, key string) (uuid.UUID, error)
	Set(ctx context.Context, key string, userID uuid.UUID) error
	Delete(ctx context.Context, key string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// AuthService handles signup, login, logout and token authentication.
type AuthService struct {
	reader UserReader
	writer UserWriter
	tokens AuthTokenStore
	cache  AuthTokenCache
	hasher PasswordHasher
	now    func() time.Time

	afterCommit func(ctx context.Context, fn func(ctx context.Context))
}

// AuthOpt configures an AuthService.
type AuthOpt func(*AuthService)

// WithAfterCommit sets how work is deferred until the surrounding
// transaction commits. By default the work runs immediately.
func WithAfterCommit(fn func(ctx context.Context, fn func(ctx context.Context))) AuthOpt {
	return func(svc *AuthService) {
		svc.afterCommit = fn
	}
}

// NewAuthService creates a new AuthService instance. cache may be nil.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	tokens AuthTokenStore,
	cache AuthTokenCache,
	hasher PasswordHasher,
	opts ...AuthOpt,
) *AuthService {
	svc := &AuthService{
		reader: reader,
		writer: writer,
		tokens: tokens,
		cache:  cache,
		hasher: hasher,
		now:    time.Now,
		afterCommit: func(ctx context.Context, fn func(ctx context.Context)) {
			fn(ctx)
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Signup creates a user and issues its auth token.
func (svc *AuthService) Signup(ctx context.Context, email, username, password string) (*models.LoginResult, error) {
	user, err := svc.createUser(ctx, email, username, password, false)
	if err != nil {
		return nil, err
	}

	token, err := svc.tokens.GetOrCreate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to issue token", "user_id", user.UserID, "err", err)
		return nil, err
	}

	logger.Log.Infow("user signed up", "user_id", user.UserID)
	return &models.LoginResult{Token: token, User: user}, nil
}

// CreateSuperuser creates an admin account. No token is issued.
func (svc *AuthService) CreateSuperuser(ctx context.Context, email, username, password string) (*models.UserDB, error) {
	return svc.createUser(ctx, email, username, password, true)
}

func (svc *AuthService) createUser(ctx context.Context, email, username, password string, isAdmin bool) (*models.UserDB, error) {
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)

	if err := validateSignup(email, username, password); err != nil {
		logger.Log.Infow("signup rejected", "email", email, "username", username, "error", err)
		return nil, err
	}

	hash, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Create(ctx, email, username, hash, isAdmin)
	switch {
	case errors.Is(err, repositories.ErrEmailTaken):
		return nil, fieldError("email", MsgEmailTaken)
	case errors.Is(err, repositories.ErrUsernameTaken):
		return nil, fieldError("username", MsgUsernameTaken)
	case err != nil:
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the user's auth token, creating it
// on first login. Unknown email, wrong password and inactive account all
// yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			svc.hasher.Verify(password, "")
			logger.Log.Infow("login failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}

	if !svc.hasher.Verify(password, user.PasswordHash) {
		logger.Log.Infow("login failed", "reason", "wrong password", "user_id", user.UserID)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Log.Infow("login failed", "reason", "inactive", "user_id", user.UserID)
		return nil, ErrInvalidCredentials
	}

	now := svc.now().UTC()
	if err := svc.writer.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		logger.Log.Errorw("failed to update last login", "user_id", user.UserID, "err", err)
		return nil, err
	}
	user.LastLogin = &now

	token, err := svc.tokens.GetOrCreate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to issue token", "user_id", user.UserID, "err", err)
		return nil, err
	}

	return &models.LoginResult{Token: token, User: user}, nil
}

// Logout deletes the user's auth token. Logging out without a token is a no-op.
// The cached key is evicted both before and after the delete commits, so a
// concurrent lookup that read the row before the commit cannot leave it cached.
// A failed eviction fails the logout.
func (svc *AuthService) Logout(ctx context.Context, user *models.UserDB) error {
	key, err := svc.tokens.DeleteByUserID(ctx, user.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		logger.Log.Errorw("failed to delete token", "user_id", user.UserID, "err", err)
		return err
	}

	if svc.cache == nil {
		return nil
	}

	if err := svc.cache.Delete(ctx, key); err != nil {
		logger.Log.Errorw("failed to evict cached token", "user_id", user.UserID, "err", err)
		return err
	}
	svc.afterCommit(ctx, func(ctx context.Context) {
		if err := svc.cache.Delete(ctx, key); err != nil {
			logger.Log.Errorw("failed to evict cached token after commit", "user_id", user.UserID, "err", err)
		}
	})
	return nil
}

// Authenticate resolves an auth token key to an active user.
func (svc *AuthService) Authenticate(ctx context.Context, key string) (*models.UserDB, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}

	userID, err := svc.resolveToken(ctx, key)
	if err != nil {
		return nil, err
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserInactive
		}
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}

func (svc *AuthService) resolveToken(ctx context.Context, key string) (uuid.UUID, error) {
	if svc.cache != nil {
		userID, err := svc.cache.Get(ctx, key)
		if err == nil {
			return userID, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			logger.Log.Warnw("token cache unavailable", "err", err)
		}
	}

	userID, err := svc.tokens.GetUserID(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return uuid.Nil, ErrInvalidToken
		}
		logger.Log.Errorw("failed to resolve token", "err", err)
		return uuid.Nil, err
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, key, userID); err != nil {
			logger.Log.Warnw("failed to cache token", "user_id", userID, "err", err)
		}
	}
	return userID, nil
}
