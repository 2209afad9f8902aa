package services

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// passwordSpecials are the symbols accepted as the special character of a password.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// PasswordProblem describes why pw is too weak, or returns "" when it is acceptable.
// A password needs 8 characters, an upper case letter, a digit and a special character.
func PasswordProblem(pw string) string {
	if len(pw) < MinPasswordLength {
		return "Password must be at least 8 characters long"
	}
	var upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	switch {
	case !upper:
		return "Password must contain an upper case letter"
	case !digit:
		return "Password must contain a number"
	case !special:
		return "Password must contain a special character"
	}
	return ""
}
