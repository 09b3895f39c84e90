package validation

import (
	"errors"
	"net/mail"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email address")

// NormalizeEmail trims and lowercases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ValidateEmail checks length (RFC 5321) and syntax (RFC 5322 via net/mail).
func ValidateEmail(email string) error {
	if email == "" || len(email) > 254 {
		return ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	return nil
}

// ContainsEmail reports whether the password embeds the address or its local part.
func ContainsEmail(password, email string) bool {
	lower := strings.ToLower(password)
	email = NormalizeEmail(email)
	if email == "" {
		return false
	}
	if strings.Contains(lower, email) {
		return true
	}
	local, _, found := strings.Cut(email, "@")
	return found && len(local) >= 4 && strings.Contains(lower, local)
}
