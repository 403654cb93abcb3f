package player

import "context"

// Repository describes player persistence needs from use cases. Create and
// AddExternalID must enforce (source, external id) uniqueness and surface
// violations as storage.ErrConflict.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetBySourceExternalID(ctx context.Context, source, externalID string) (Player, bool, error)
	// ListByTeam returns players with a roster-history association to the team.
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	ListByNormalizedName(ctx context.Context, normalizedName string) ([]Player, error)
	List(ctx context.Context) ([]Player, error)
	Create(ctx context.Context, item Player) error
	AddExternalID(ctx context.Context, playerID, source, externalID string) error
	// FillMissingFields sets only fields that are currently unset on the
	// stored player (nil height/birthdate, empty nationality/positions).
	FillMissingFields(ctx context.Context, playerID string, fields Player) error
}
