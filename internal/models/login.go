package models

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// example: alice@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: pw123456
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
// swagger:model LoginResponse
type LoginResponse struct {
	// Status message
	// example: Login successful.
	Detail string `json:"detail"`

	// Auth token
	// example: 9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b
	Token string `json:"token"`

	// Authenticated user
	User UserPublic `json:"user"`
}

// LoginResult is what the auth service hands back on successful signup or login.
type LoginResult struct {
	Token string
	User  *UserDB
}
