// Package credentials hashes and checks user passwords.
package credentials

import (
	"crypto/sha256"
	"encoding/base64"
	"unicode"

	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns a salted bcrypt hash of password.
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prepare(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares password with hash in constant time. A malformed or empty hash
// yields false.
func Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prepare(password)) == nil
}

// ValidatePassword enforces the acceptance policy before hashing.
func ValidatePassword(password string) error {
	n := len([]rune(password))
	if n < config.PasswordMinLength {
		return apperr.Validation("password must be at least %d characters long", config.PasswordMinLength)
	}
	if n > config.PasswordMaxLength {
		return apperr.Validation("password must be at most %d characters long", config.PasswordMaxLength)
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return apperr.Validation("password must contain at least one uppercase letter")
	}
	if !lower {
		return apperr.Validation("password must contain at least one lowercase letter")
	}
	if !digit {
		return apperr.Validation("password must contain at least one number")
	}
	return nil
}

// bcrypt rejects input longer than 72 bytes, so longer passwords are reduced
// to a SHA-256 digest first.
func prepare(password string) []byte {
	if len(password) <= 72 {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
