package playbyplay

import "context"

// Repository describes play-by-play persistence. ReplaceForGame must delete
// and insert within one transaction (same contract as game statistics).
type Repository interface {
	ListByGame(ctx context.Context, gameID, source string) ([]Event, error)
	ReplaceForGame(ctx context.Context, gameID, source string, events []Event) error
}
