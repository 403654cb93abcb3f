package team

import "context"

// Repository describes team persistence needs from use cases. Create and
// AddExternalID must enforce the (source, external id) uniqueness constraint
// and surface violations as storage.ErrConflict.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetBySourceExternalID(ctx context.Context, source, externalID string) (Team, bool, error)
	GetByNormalizedName(ctx context.Context, normalizedName string) (Team, bool, error)
	GetByShortName(ctx context.Context, shortName string) (Team, bool, error)
	Create(ctx context.Context, item Team) error
	AddExternalID(ctx context.Context, teamID, source, externalID string) error
	// FillMissingFields sets only the fields that are currently empty on the
	// stored team; non-empty stored values are never overwritten.
	FillMissingFields(ctx context.Context, teamID string, fields Team) error
	EnsureSeasonParticipation(ctx context.Context, teamID, seasonID string) error
}
