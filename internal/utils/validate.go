package utils

import (
	"regexp"
	"strings"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	fullNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z ]{1,99}$`)
)

// ValidateUsername reports whether the username is 3 to 30 characters
// of letters, digits and underscores.
func ValidateUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidateEmail performs a basic well-formedness check on an email
// address.  Deliverability is not verified.
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidateFullName reports whether the name is 2 to 100 characters of
// letters and spaces.
func ValidateFullName(name string) bool {
	return fullNameRe.MatchString(strings.TrimSpace(name))
}

// ValidatePassword enforces the password policy: at least 6 characters
// and at least one non-alphanumeric symbol.
func ValidatePassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return true
		}
	}
	return false
}
