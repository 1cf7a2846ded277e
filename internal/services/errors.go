package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sbilibin2017/lms-accounts/internal/models"
)

// Error variables
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserInactive       = errors.New("user inactive or deleted")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// Field error messages.
const (
	MsgFieldRequired = "This field is required."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgEmailTaken    = "user with this email already exists."
	MsgUsernameTaken = "user with this username already exists."
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = models.FieldErrors{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// orNil returns e only when it holds at least one field error.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, msg string) *ValidationError {
	verr := &ValidationError{}
	verr.add(field, msg)
	return verr
}

func maxLengthMsg(n int, unit string) string {
	return fmt.Sprintf("Ensure this field has no more than %d %s.", n, unit)
}
