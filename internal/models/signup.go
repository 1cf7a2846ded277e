package models

// SignupRequest represents the JSON body for user signup
// swagger:model SignupRequest
type SignupRequest struct {
	// Email
	// required: true
	// example: alice@example.com
	Email string `json:"email"`

	// Username
	// required: true
	// example: alice
	Username string `json:"username"`

	// Password, write-only
	// required: true
	// example: pw123456
	Password string `json:"password"`
}

// SignupResponse represents a successful signup response
// swagger:model SignupResponse
type SignupResponse struct {
	// Auth token
	// example: 9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b
	Token string `json:"token"`

	// Created user
	User UserPublic `json:"user"`
}

// FieldErrors maps a request field to its validation messages
// swagger:model FieldErrors
type FieldErrors map[string][]string
