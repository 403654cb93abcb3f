package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	GetBySourceExternalID(ctx context.Context, source, externalID string) (Game, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Game, error)
	// Upsert inserts the game or updates the existing row with the same
	// (source, external id), keeping the stored ID.
	Upsert(ctx context.Context, item Game) (Game, error)
}
