package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for ownership/auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input or state.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict signals an operation refused because another one holds
	// the resource (e.g. a dispatch lock).
	ErrConflict = errors.New("conflict")
)
