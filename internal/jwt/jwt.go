// Package jwt mints and checks password-reset tokens.
//
// A reset token is an HS256 JWT whose signing key is derived from the server
// secret and a snapshot of the user's mutable state (password hash, last
// login, email). Changing any of those invalidates every token minted
// before the change, so a consumed token cannot be replayed.
package jwt

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sbilibin2017/lms-accounts/internal/models"
)

// ErrInvalidToken covers malformed, expired, foreign and stale tokens alike.
var ErrInvalidToken = errors.New("invalid or expired reset token")

// ResetTokenGenerator creates and validates password-reset tokens.
type ResetTokenGenerator struct {
	secretKey []byte
	exp       time.Duration
	now       func() time.Time
}

// Opt configures a ResetTokenGenerator.
type Opt func(*ResetTokenGenerator)

// WithSecretKey sets the server secret the signing keys derive from.
func WithSecretKey(secret string) Opt {
	return func(g *ResetTokenGenerator) {
		g.secretKey = []byte(secret)
	}
}

// WithExpiration sets how long a token stays valid.
func WithExpiration(exp time.Duration) Opt {
	return func(g *ResetTokenGenerator) {
		g.exp = exp
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Opt {
	return func(g *ResetTokenGenerator) {
		g.now = now
	}
}

// New creates a generator. Defaults: empty secret, three-day expiration.
func New(opts ...Opt) *ResetTokenGenerator {
	g := &ResetTokenGenerator{
		exp: 72 * time.Hour,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Make mints a reset token bound to the user's current state.
func (g *ResetTokenGenerator) Make(ctx context.Context, user *models.UserDB) (string, error) {
	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.exp)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.signingKey(user))
}

// Check validates token against the user's current state.
func (g *ResetTokenGenerator) Check(ctx context.Context, user *models.UserDB, tokenString string) error {
	if tokenString == "" {
		return ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (any, error) {
			return g.signingKey(user), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(user.UserID.String()),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	return nil
}

// signingKey derives the per-user HMAC key. Timestamps are cut to
// microseconds, the precision PostgreSQL keeps.
func (g *ResetTokenGenerator) signingKey(user *models.UserDB) []byte {
	lastLogin := ""
	if user.LastLogin != nil {
		lastLogin = strconv.FormatInt(user.LastLogin.UTC().Truncate(time.Microsecond).UnixMicro(), 10)
	}

	mac := hmac.New(sha256.New, g.secretKey)
	for _, part := range []string{user.UserID.String(), user.PasswordHash, lastLogin, user.Email} {
		mac.Write([]byte(part))
		mac.Write([]byte{0})
	}
	return mac.Sum(nil)
}
