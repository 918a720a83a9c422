package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict indicates a conditional write lost a concurrent race.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned when email/password do not match.
	// It deliberately does not distinguish an unknown email from a wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
