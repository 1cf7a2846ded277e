package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/lms-accounts/internal/middlewares"
	"github.com/sbilibin2017/lms-accounts/internal/models"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, user *models.UserDB) error
}

// NewLogoutHandler returns an HTTP handler that revokes the caller's token.
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} models.DetailResponse "Logout successful."
// @Failure 401 {object} models.DetailResponse "Not authenticated"
// @Failure 500 {object} models.DetailResponse "Token could not be revoked"
// @Router /logout/ [post]
// @Security TokenAuth
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			writeDetail(w, http.StatusUnauthorized, "User not authenticated.")
			return
		}

		if err := svc.Logout(r.Context(), user); err != nil {
			writeInternalError(w, err)
			return
		}

		writeDetail(w, http.StatusOK, "Logout successful.")
	}
}
