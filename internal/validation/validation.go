// Package validation centralizes the input rules for identity fields.
// The password policy lives here and nowhere else.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidUsername = errors.New("username is required")
	ErrInvalidEmail    = errors.New("please enter a valid email address")
	ErrWeakPassword    = errors.New("password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a digit, and a symbol")
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Username rejects names that are empty once surrounding whitespace is
// stripped.
func Username(username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrInvalidUsername
	}
	return nil
}

// Email reports whether the address has a plausible shape. Normalization
// (trim, lowercase) is the caller's job.
func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// Password enforces the policy for local accounts: minimum 8 characters
// with at least one uppercase letter, one lowercase letter, one digit,
// and one symbol.
func Password(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return ErrWeakPassword
	}
	return nil
}
