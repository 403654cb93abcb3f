package synccache

import "time"

// Entry is one cached provider payload, keyed by (source, resource type,
// resource key). ContentHash is a SHA-256 over the raw payload bytes;
// Payload is retained for debugging provider regressions.
type Entry struct {
	Source       string
	ResourceType string
	ResourceKey  string
	ContentHash  string
	Payload      []byte
	UpdatedAt    time.Time
}

// Key identifies one unit of cached work.
type Key struct {
	Source       string
	ResourceType string
	ResourceKey  string
}
