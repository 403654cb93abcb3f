package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/game"
)

type GameRepository struct {
	mu         sync.RWMutex
	byID       map[string]game.Game
	byExternal map[string]string
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		byID:       make(map[string]game.Game),
		byExternal: make(map[string]string),
	}
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[gameID]
	return item, ok, nil
}

func (r *GameRepository) GetBySourceExternalID(_ context.Context, source, externalID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gameID, ok := r.byExternal[externalKey(source, externalID)]
	if !ok {
		return game.Game{}, false, nil
	}
	return r.byID[gameID], true, nil
}

func (r *GameRepository) ListBySeason(_ context.Context, seasonID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, item := range r.byID {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := externalKey(item.Source, item.ExternalID)
	if existingID, ok := r.byExternal[key]; ok {
		item.ID = existingID
	}
	r.byID[item.ID] = item
	r.byExternal[key] = item.ID
	return item, nil
}
