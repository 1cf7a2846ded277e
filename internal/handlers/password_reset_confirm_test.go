package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/sbilibin2017/lms-accounts/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestPasswordResetConfirmHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockResetConfirmer(ctrl)

	r := chi.NewRouter()
	r.Post("/password-reset-confirm/{uid}/{token}/", NewPasswordResetConfirmHandler(mockSvc))

	body := models.PasswordResetConfirmRequest{Password: "n3w", PasswordConfirmation: "n3w"}

	tests := []struct {
		name         string
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
		expectedBody string
	}{
		{
			name:      "redirects to login",
			inputBody: body,
			mockSetup: func() {
				mockSvc.EXPECT().ConfirmReset(gomock.Any(), "dWlk", "tkn", "n3w", "n3w").Return(nil)
			},
			expectedCode: http.StatusFound,
		},
		{
			name:      "invalid token",
			inputBody: body,
			mockSetup: func() {
				mockSvc.EXPECT().ConfirmReset(gomock.Any(), "dWlk", "tkn", "n3w", "n3w").Return(services.ErrInvalidResetToken)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Invalid or expired token."}`,
		},
		{
			name:      "mismatch",
			inputBody: models.PasswordResetConfirmRequest{Password: "a", PasswordConfirmation: "b"},
			mockSetup: func() {
				mockSvc.EXPECT().ConfirmReset(gomock.Any(), "dWlk", "tkn", "a", "b").Return(services.ErrPasswordMismatch)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Passwords do not match."}`,
		},
		{
			name:      "empty password",
			inputBody: models.PasswordResetConfirmRequest{},
			mockSetup: func() {
				mockSvc.EXPECT().ConfirmReset(gomock.Any(), "dWlk", "tkn", "", "").
					Return(&services.ValidationError{Fields: models.FieldErrors{"password": {services.MsgFieldRequired}}})
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"password":["This field is required."]}`,
		},
		{
			name:         "invalid JSON",
			inputBody:    "nope",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"JSON parse error."}`,
		},
		{
			name:      "internal error",
			inputBody: body,
			mockSetup: func() {
				mockSvc.EXPECT().ConfirmReset(gomock.Any(), "dWlk", "tkn", "n3w", "n3w").Return(errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Internal server error."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/password-reset-confirm/dWlk/tkn/", bytes.NewReader(encodeBody(t, tt.inputBody)))
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusFound {
				assert.Equal(t, "/login/", w.Header().Get("Location"))
				return
			}
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
