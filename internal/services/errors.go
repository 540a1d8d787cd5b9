package services

import "errors"

var (
	// ErrValidation marks input rejected before any store mutation.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is the single outcome for every failed login,
	// whatever the cause.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStoreUnavailable marks an operation aborted because the store
	// could not be reached at all.
	ErrStoreUnavailable = errors.New("store unavailable")
)
