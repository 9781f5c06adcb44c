package auth

import (
	"strings"
	"unicode"
)

// passwordSymbols is the punctuation set a strong password must draw
// at least one character from.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidatePasswordStrength enforces the credential policy: at least 12
// characters with an uppercase letter, a lowercase letter, a digit,
// and a symbol. Callers report failures under a uniform key and never
// echo the password.
func ValidatePasswordStrength(password string) bool {
	if len(password) < 12 {
		return false
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
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}
