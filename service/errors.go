package service

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("email or password does not match")
	ErrStoreFailure       = errors.New("store failure")
)

// storeFailure wraps a persistence error so callers can match both
// ErrStoreFailure and the driver error.
func storeFailure(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, msg, err)
}
