// Package memory holds in-memory repository implementations used by tests
// and local development. They enforce the same uniqueness constraints as
// the postgres implementations and surface violations as storage.ErrConflict
// so race handling can be exercised without a database.
package memory
