package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// minPasswordLength is the minimum accepted password length on registration
// and password change.
const minPasswordLength = 8

// ErrPasswordTooWeak is returned when a new password fails the strength check.
var ErrPasswordTooWeak = errors.New("password must be at least 8 characters")

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrPasswordTooWeak
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext password matches the hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
