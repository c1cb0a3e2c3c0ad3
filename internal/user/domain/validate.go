package domain

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// ValidateUsername checks the public handle format
func ValidateUsername(username string) error {
	if username == "" {
		return apperror.Validation("username", "username is required")
	}
	if !usernamePattern.MatchString(username) {
		return apperror.Validation("username", "username must be 3-30 letters, digits or underscores")
	}
	return nil
}

// NormalizeEmail trims and lowercases an address after checking its shape
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperror.Validation("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.Validation("email", "email is invalid")
	}
	return strings.ToLower(email), nil
}

// ValidatePassword checks the password policy
func ValidatePassword(password string) error {
	if password == "" {
		return apperror.Validation("password", "password is required")
	}
	if len(password) < MinPasswordLength {
		return apperror.Validation("password", "password must be at least 6 characters")
	}
	return nil
}
