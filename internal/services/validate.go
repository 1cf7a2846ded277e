package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/sbilibin2017/lms-accounts/internal/hasher"
)

const (
	maxEmailLength    = 255
	maxUsernameLength = 30
)

// NormalizeEmail trims surrounding space and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(email, username, password string) error {
	verr := &ValidationError{}

	switch {
	case email == "":
		verr.add("email", MsgFieldRequired)
	case utf8.RuneCountInString(email) > maxEmailLength:
		verr.add("email", maxLengthMsg(maxEmailLength, "characters"))
	case !validEmail(email):
		verr.add("email", MsgInvalidEmail)
	}

	switch {
	case username == "":
		verr.add("username", MsgFieldRequired)
	case utf8.RuneCountInString(username) > maxUsernameLength:
		verr.add("username", maxLengthMsg(maxUsernameLength, "characters"))
	}

	validatePassword(verr, "password", password)

	return verr.orNil()
}

func validatePassword(verr *ValidationError, field, password string) {
	switch {
	case password == "":
		verr.add(field, MsgFieldRequired)
	case len(password) > hasher.MaxPasswordBytes:
		verr.add(field, maxLengthMsg(hasher.MaxPasswordBytes, "bytes"))
	}
}

// validEmail accepts a bare addr-spec with a dotted domain.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
