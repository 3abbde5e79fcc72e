package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Password length bounds, enforced before hashing.
const (
	MinPasswordLen = 6
	MaxPasswordLen = 30
)

// ErrPasswordLength is returned when a plaintext password falls outside the
// accepted [MinPasswordLen, MaxPasswordLen] range.
var ErrPasswordLength = fmt.Errorf("password must be between %d and %d characters", MinPasswordLen, MaxPasswordLen)

// HashPassword validates the plaintext length and hashes it with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen || len(password) > MaxPasswordLen {
		return "", ErrPasswordLength
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateRandomString produces a cryptographically random base64url string of n bytes.
func GenerateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewLoginToken generates an opaque bearer credential (24 bytes = 32 chars base64url).
func NewLoginToken() (string, error) {
	return GenerateRandomString(24)
}

// NewRoomCode generates a random room admission code (12 bytes = 16 chars base64url).
func NewRoomCode() (string, error) {
	return GenerateRandomString(12)
}
