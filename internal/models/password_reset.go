package models

// PasswordResetRequest represents the JSON body of a reset request
// swagger:model PasswordResetRequest
type PasswordResetRequest struct {
	// Email of the account to reset
	// required: true
	// example: alice@example.com
	Email string `json:"email"`
}

// PasswordResetConfirmRequest represents the JSON body of a reset confirmation
// swagger:model PasswordResetConfirmRequest
type PasswordResetConfirmRequest struct {
	// New password
	// required: true
	// example: n3w-secret
	Password string `json:"password"`

	// New password, repeated
	// required: true
	// example: n3w-secret
	PasswordConfirmation string `json:"password_confirmation"`
}
