package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any backend call
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when the caller has no usable session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionNotFound is returned when a session id is unknown
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session is past its expiry
	ErrSessionExpired = errors.New("session expired")

	// ErrNotFound is returned when a proposal or assignment is not visible
	// to the session user
	ErrNotFound = errors.New("not found")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
