package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/sbilibin2017/lms-accounts/internal/services"
)

// Signuper defines the interface that the signup service must implement.
type Signuper interface {
	Signup(ctx context.Context, email, username, password string) (*models.LoginResult, error)
}

// NewSignupHandler returns an HTTP handler for user registration.
// @Summary Sign up
// @Description Creates an account and returns its auth token. Email and username must be unique.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body models.SignupRequest true "Signup Request"
// @Success 201 {object} models.SignupResponse "User created"
// @Failure 400 {object} models.FieldErrors "Field errors"
// @Failure 500 {object} models.DetailResponse "Internal server error"
// @Router /signup/ [post]
func NewSignupHandler(svc Signuper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignupRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, msgParseError)
			return
		}

		res, err := svc.Signup(r.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusBadRequest, verr.Fields)
				return
			}
			writeInternalError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, models.SignupResponse{
			Token: res.Token,
			User:  res.User.Public(),
		})
	}
}
