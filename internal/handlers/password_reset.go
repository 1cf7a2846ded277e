package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/sbilibin2017/lms-accounts/internal/models"
)

const msgResetRequested = "If an account with that email exists, a password reset link has been sent."

// ResetRequester defines the interface that the reset service must implement.
type ResetRequester interface {
	RequestReset(ctx context.Context, email, baseURL string)
}

// NewPasswordResetHandler returns an HTTP handler that emails a reset link.
// Links are built on publicURL, or on the request's own scheme and host when
// publicURL is empty.
// @Summary Request password reset
// @Description Always answers the same way whether or not the email is registered.
// @Tags password
// @Accept json
// @Produce json
// @Param request body models.PasswordResetRequest true "Password Reset Request"
// @Success 200 {object} models.DetailResponse "Generic acknowledgement"
// @Failure 400 {object} models.DetailResponse "JSON parse error"
// @Router /password-reset/ [post]
func NewPasswordResetHandler(svc ResetRequester, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordResetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, msgParseError)
			return
		}

		baseURL := publicURL
		if baseURL == "" {
			baseURL = requestBaseURL(r)
		}

		svc.RequestReset(r.Context(), req.Email, baseURL)

		writeDetail(w, http.StatusOK, msgResetRequested)
	}
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host
}
