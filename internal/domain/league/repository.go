package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetBySourceExternalID(ctx context.Context, source, externalID string) (League, bool, error)
	Create(ctx context.Context, item League) error
	AddExternalID(ctx context.Context, leagueID, source, externalID string) error
}

// SeasonRepository describes season persistence needs from use cases.
type SeasonRepository interface {
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	GetBySourceExternalID(ctx context.Context, source, externalID string) (Season, bool, error)
	GetByLeagueAndYears(ctx context.Context, leagueID string, startYear, endYear int) (Season, bool, error)
	Create(ctx context.Context, item Season) error
	AddExternalID(ctx context.Context, seasonID, source, externalID string) error
}
