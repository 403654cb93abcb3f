package roster

import "context"

// Repository describes roster persistence needs. Upsert updates the row in
// place when the (player, team, season) triple already exists.
type Repository interface {
	Upsert(ctx context.Context, item Membership) error
	ListByTeamSeason(ctx context.Context, teamID, seasonID string) ([]Membership, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Membership, error)
}
