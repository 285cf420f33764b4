package auth

import (
	"errors"
	"regexp"
)

var (
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)
	hasDigit        = regexp.MustCompile(`\d`)
)

var (
	ErrPasswordTooShort  = errors.New("Password must be at least 4 characters")
	ErrPasswordTooSimple = errors.New("Password must include at least one letter and one number")
)

// ValidatePassword enforces the signup password policy: minimum 4 characters
// from the allowed set, containing at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < 4 {
		return ErrPasswordTooShort
	}
	if !passwordCharset.MatchString(password) || !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return ErrPasswordTooSimple
	}
	return nil
}
