package model

import "errors"

var (
	// ErrNotFound is returned when no record exists for an identifier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks values outside a defined enum or otherwise malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStoreUnavailable wraps transport and auth failures of a backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrAlreadyExists is returned when creating a record whose id is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAmbiguousEmail is returned when more than one user shares an email.
	ErrAmbiguousEmail = errors.New("email matches more than one user")
)

var (
	ErrCodeExpired      = errors.New("verification code expired")
	ErrInvalidCode      = errors.New("verification code mismatch")
	ErrTooManyAttempts  = errors.New("too many verification attempts")
	ErrPermissionDenied = errors.New("permission denied")
)
