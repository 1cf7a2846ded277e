package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/sbilibin2017/lms-accounts/internal/services"
)

// LoginPath is where a successful reset confirmation redirects.
const LoginPath = "/login/"

// ResetConfirmer defines the interface that the reset service must implement.
type ResetConfirmer interface {
	ConfirmReset(ctx context.Context, uid, token, password, passwordConfirmation string) error
}

// NewPasswordResetConfirmHandler returns an HTTP handler that sets a new
// password from a reset link.
// @Summary Confirm password reset
// @Tags password
// @Accept json
// @Produce json
// @Param uid path string true "Encoded user id"
// @Param token path string true "Reset token"
// @Param request body models.PasswordResetConfirmRequest true "New password"
// @Success 302 "Redirect to /login/"
// @Failure 400 {object} models.DetailResponse "Invalid or expired token / Passwords do not match"
// @Router /password-reset-confirm/{uid}/{token}/ [post]
func NewPasswordResetConfirmHandler(svc ResetConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordResetConfirmRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, msgParseError)
			return
		}

		err := svc.ConfirmReset(r.Context(),
			chi.URLParam(r, "uid"), chi.URLParam(r, "token"),
			req.Password, req.PasswordConfirmation,
		)
		if err != nil {
			var verr *services.ValidationError
			switch {
			case errors.Is(err, services.ErrInvalidResetToken):
				writeDetail(w, http.StatusBadRequest, "Invalid or expired token.")
			case errors.Is(err, services.ErrPasswordMismatch):
				writeDetail(w, http.StatusBadRequest, "Passwords do not match.")
			case errors.As(err, &verr):
				writeJSON(w, http.StatusBadRequest, verr.Fields)
			default:
				writeInternalError(w, err)
			}
			return
		}

		http.Redirect(w, r, LoginPath, http.StatusFound)
	}
}
