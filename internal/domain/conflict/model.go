package conflict

import "time"

// Conflict is a persisted external-id conflict: a (source, external id)
// pair already bound to a different entity than the one matched by name or
// biography. These are never auto-resolved; operators inspect them through
// the ops API.
type Conflict struct {
	ID              string
	EntityKind      string // "team" or "player"
	Source          string
	ExternalID      string
	BoundEntityID   string
	MatchedEntityID string
	Detail          string
	CreatedAt       time.Time
}
