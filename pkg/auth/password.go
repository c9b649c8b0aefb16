package auth

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 6
	// bcrypt ignores input past 72 bytes
	MaxPasswordBytes = 72
)

// BcryptCost is the work factor used by HashPassword. Tests lower it to bcrypt.MinCost.
var BcryptCost = 12

// PasswordValidationError describes why a password was rejected
type PasswordValidationError struct {
	Reason string
}

func (e *PasswordValidationError) Error() string {
	return "password " + e.Reason
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// VerifyPassword reports whether password matches the stored hash.
// An empty hash never matches.
func VerifyPassword(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	return ComparePassword(hashedPassword, password) == nil
}

// ValidatePassword enforces the signup password policy: at least MinPasswordLen characters
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return &PasswordValidationError{Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen)}
	}
	if len(password) > MaxPasswordBytes {
		return &PasswordValidationError{Reason: fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)}
	}
	return nil
}
