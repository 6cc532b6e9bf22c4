package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when an optimistic version bump finds
	// the stored version already advanced by a concurrent run. Callers
	// treat it as a no-op skip, not a failure.
	ErrVersionConflict = errors.New("policy version conflict")
)
