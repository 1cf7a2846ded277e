package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sbilibin2017/lms-accounts/internal/logger"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/sbilibin2017/lms-accounts/internal/services"
)

const (
	msgNoCredentials   = "Authentication credentials were not provided."
	msgBadTokenHeader  = "Invalid token header."
	msgInvalidToken    = "Invalid token."
	msgUserInactive    = "User inactive or deleted."
	msgInternalError   = "Internal server error."
	authenticateHeader = `Token realm="api"`
)

// Authenticator resolves an auth token key to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*models.UserDB, error)
}

// AuthMiddleware requires an "Authorization: Token <key>" (or Bearer) header
// and puts the authenticated user into the request context.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, msg := tokenFromHeader(r.Header.Get("Authorization"))
			if msg != "" {
				unauthorized(w, msg)
				return
			}

			user, err := auth.Authenticate(r.Context(), key)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrInvalidToken):
					unauthorized(w, msgInvalidToken)
				case errors.Is(err, services.ErrUserInactive):
					unauthorized(w, msgUserInactive)
				default:
					logger.Log.Errorw("authentication failed", "err", err)
					writeDetail(w, http.StatusInternalServerError, msgInternalError)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// tokenFromHeader returns the key, or the detail message to reject with.
func tokenFromHeader(header string) (string, string) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return "", msgNoCredentials
	}
	if !strings.EqualFold(parts[0], "Token") && !strings.EqualFold(parts[0], "Bearer") {
		return "", msgNoCredentials
	}
	if len(parts) != 2 {
		return "", msgBadTokenHeader
	}
	return parts[1], ""
}

type userKey struct{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey{}).(*models.UserDB)
	return user
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", authenticateHeader)
	writeDetail(w, http.StatusUnauthorized, msg)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.DetailResponse{Detail: msg})
}
