package service

import (
	"errors"
	"fmt"
)

// Authentication and lookup failures are returned as values so callers can
// branch without unwrapping store diagnostics. Store failures are wrapped
// with %w and propagate as fatal for the operation.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrRoomNotFound       = errors.New("room not found")
	ErrCodeNotFound       = errors.New("room code not found")
	ErrCodeExhausted      = errors.New("room code usage exhausted")
	ErrCodeExpired        = errors.New("room code expired")
	ErrAlreadyInRoom      = errors.New("account already participates in a room")
	ErrNoParticipant      = errors.New("account has no participant")
)

// ValidationError reports a field whose shape was rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
