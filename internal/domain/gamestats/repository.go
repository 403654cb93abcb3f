package gamestats

import "context"

// Repository describes per-game statistics persistence. ReplaceForGame must
// run its delete and inserts in one transaction so a reader never observes a
// game with partial stats mid-sync.
type Repository interface {
	ListPlayerLines(ctx context.Context, gameID, source string) ([]PlayerLine, error)
	ListTeamLines(ctx context.Context, gameID, source string) ([]TeamLine, error)
	// ReplaceForGame deletes every stored line for (gameID, source) and
	// inserts the given set atomically.
	ReplaceForGame(ctx context.Context, gameID, source string, players []PlayerLine, teams []TeamLine) error
}
