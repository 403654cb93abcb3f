package memory

import (
	"context"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/gamestats"
)

type GameStatsRepository struct {
	mu      sync.RWMutex
	players map[string][]gamestats.PlayerLine // game \x00 source
	teams   map[string][]gamestats.TeamLine
}

func NewGameStatsRepository() *GameStatsRepository {
	return &GameStatsRepository{
		players: make(map[string][]gamestats.PlayerLine),
		teams:   make(map[string][]gamestats.TeamLine),
	}
}

func (r *GameStatsRepository) ListPlayerLines(_ context.Context, gameID, source string) ([]gamestats.PlayerLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.players[externalKey(gameID, source)]
	out := make([]gamestats.PlayerLine, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *GameStatsRepository) ListTeamLines(_ context.Context, gameID, source string) ([]gamestats.TeamLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.teams[externalKey(gameID, source)]
	out := make([]gamestats.TeamLine, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *GameStatsRepository) ReplaceForGame(_ context.Context, gameID, source string, players []gamestats.PlayerLine, teams []gamestats.TeamLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := externalKey(gameID, source)
	r.players[key] = append([]gamestats.PlayerLine(nil), players...)
	r.teams[key] = append([]gamestats.TeamLine(nil), teams...)
	return nil
}
