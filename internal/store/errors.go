package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates a state conflict, e.g., settling an invoice that is
	// no longer unpaid.
	ErrConflict = errors.New("conflict")

	// ErrDuplicate indicates a uniqueness violation, e.g., a participant name
	// already taken within the trip.
	ErrDuplicate = errors.New("duplicate")
)
