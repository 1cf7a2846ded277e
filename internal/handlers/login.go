package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/sbilibin2017/lms-accounts/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Verifies email and password and returns the user's auth token.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login Request"
// @Success 200 {object} models.LoginResponse "Token returned"
// @Failure 400 {object} models.DetailResponse "Missing fields or invalid email or password"
// @Failure 500 {object} models.DetailResponse "Internal server error"
// @Router /login/ [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, msgParseError)
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingCredentials):
				writeDetail(w, http.StatusBadRequest, "Email and password are required.")
			case errors.Is(err, services.ErrInvalidCredentials):
				writeDetail(w, http.StatusBadRequest, "Invalid email or password.")
			default:
				writeInternalError(w, err)
			}
			return
		}

		writeJSON(w, http.StatusOK, models.LoginResponse{
			Detail: "Login successful.",
			Token:  res.Token,
			User:   res.User.Public(),
		})
	}
}
