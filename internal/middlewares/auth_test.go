package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/sbilibin2017/lms-accounts/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), IsActive: true}

	tests := []struct {
		name             string
		header           string
		mockSetup        func(m *MockAuthenticator)
		expectedStatus   int
		expectedDetail   string
		expectNextCalled bool
	}{
		{
			name:           "NoHeader",
			mockSetup:      func(m *MockAuthenticator) {},
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Authentication credentials were not provided.",
		},
		{
			name:           "OtherScheme",
			header:         "Basic dXNlcjpwdw==",
			mockSetup:      func(m *MockAuthenticator) {},
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Authentication credentials were not provided.",
		},
		{
			name:           "KeyMissing",
			header:         "Token",
			mockSetup:      func(m *MockAuthenticator) {},
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Invalid token header.",
		},
		{
			name:           "KeyWithSpaces",
			header:         "Token a b",
			mockSetup:      func(m *MockAuthenticator) {},
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Invalid token header.",
		},
		{
			name:   "InvalidToken",
			header: "Token sometoken",
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "sometoken").Return(nil, services.ErrInvalidToken)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Invalid token.",
		},
		{
			name:   "InactiveUser",
			header: "Token sometoken",
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "sometoken").Return(nil, services.ErrUserInactive)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "User inactive or deleted.",
		},
		{
			name:   "StoreFailure",
			header: "Token sometoken",
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "sometoken").Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedDetail: "Internal server error.",
		},
		{
			name:   "ValidToken",
			header: "Token validtoken",
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "validtoken").Return(user, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
		{
			name:   "ValidBearerLowercase",
			header: "bearer validtoken",
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "validtoken").Return(user, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := NewMockAuthenticator(ctrl)
			tt.mockSetup(mockAuth)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, user, UserFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			AuthMiddleware(mockAuth)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)

			if tt.expectedDetail != "" {
				var body models.DetailResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedDetail, body.Detail)
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, UserFromContext(req.Context()))
}
