// Package storage holds errors shared by every repository implementation.
package storage

import "errors"

// ErrConflict is returned when a write violates a uniqueness constraint,
// typically because a concurrent syncer created the same (source, external
// id) binding first. Callers treat it as a lost race: re-query and merge.
var ErrConflict = errors.New("storage: uniqueness conflict")

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
