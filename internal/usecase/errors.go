package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrExternalIDConflict means a (source, external id) pair is already
	// bound to a different entity than the one matched by name or biography.
	// The record is skipped and the conflict recorded; it is never resolved
	// automatically.
	ErrExternalIDConflict = errors.New("external id conflict")

	// ErrPersistenceConflict means a create lost a uniqueness race twice:
	// once is recovered by re-query-and-merge, a second failure escalates.
	ErrPersistenceConflict = errors.New("persistence conflict")
)
