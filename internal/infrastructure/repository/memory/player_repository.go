package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/player"
	"github.com/courtdata/courtsync/internal/domain/storage"
)

// PlayerRepository consults the roster repository for team-scoped lookups,
// mirroring the join the postgres implementation performs.
type PlayerRepository struct {
	mu         sync.RWMutex
	byID       map[string]player.Player
	byExternal map[string]string
	rosters    *RosterRepository
}

func NewPlayerRepository(rosters *RosterRepository) *PlayerRepository {
	return &PlayerRepository{
		byID:       make(map[string]player.Player),
		byExternal: make(map[string]string),
		rosters:    rosters,
	}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[playerID]
	if !ok {
		return player.Player{}, false, nil
	}
	return clonePlayer(item), true, nil
}

func (r *PlayerRepository) GetBySourceExternalID(_ context.Context, source, externalID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playerID, ok := r.byExternal[externalKey(source, externalID)]
	if !ok {
		return player.Player{}, false, nil
	}
	return clonePlayer(r.byID[playerID]), true, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	ids := r.rosters.playerIDsByTeam(teamID)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(ids))
	for playerID := range ids {
		if item, ok := r.byID[playerID]; ok {
			out = append(out, clonePlayer(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) ListByNormalizedName(_ context.Context, normalizedName string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []player.Player
	for _, item := range r.byID {
		if item.NormalizedName == normalizedName {
			out = append(out, clonePlayer(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, clonePlayer(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[item.ID]; exists {
		return fmt.Errorf("%w: player id %s", storage.ErrConflict, item.ID)
	}
	for source, externalID := range item.ExternalIDs {
		if owner, exists := r.byExternal[externalKey(source, externalID)]; exists && owner != item.ID {
			return fmt.Errorf("%w: player external id %s/%s", storage.ErrConflict, source, externalID)
		}
	}

	r.byID[item.ID] = clonePlayer(item)
	for source, externalID := range item.ExternalIDs {
		r.byExternal[externalKey(source, externalID)] = item.ID
	}
	return nil
}

func (r *PlayerRepository) AddExternalID(_ context.Context, playerID, source, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[playerID]
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	key := externalKey(source, externalID)
	if owner, exists := r.byExternal[key]; exists && owner != playerID {
		return fmt.Errorf("%w: player external id %s/%s", storage.ErrConflict, source, externalID)
	}
	if bound, exists := item.ExternalIDs[source]; exists && bound != externalID {
		return fmt.Errorf("%w: player %s already bound for source %s", storage.ErrConflict, playerID, source)
	}

	item.ExternalIDs[source] = externalID
	r.byID[playerID] = item
	r.byExternal[key] = playerID
	return nil
}

func (r *PlayerRepository) FillMissingFields(_ context.Context, playerID string, fields player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[playerID]
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	if item.GivenName == "" {
		item.GivenName = fields.GivenName
	}
	if item.Surname == "" {
		item.Surname = fields.Surname
	}
	if len(item.Positions) == 0 && len(fields.Positions) > 0 {
		item.Positions = append(item.Positions[:0], fields.Positions...)
	}
	if item.Height == nil && fields.Height != nil {
		h := *fields.Height
		item.Height = &h
	}
	if item.Birthdate == nil && fields.Birthdate != nil {
		bd := *fields.Birthdate
		item.Birthdate = &bd
	}
	if item.Nationality == "" {
		item.Nationality = fields.Nationality
	}
	r.byID[playerID] = item
	return nil
}

func clonePlayer(item player.Player) player.Player {
	out := item
	out.ExternalIDs = make(map[string]string, len(item.ExternalIDs))
	for source, externalID := range item.ExternalIDs {
		out.ExternalIDs[source] = externalID
	}
	if item.Positions != nil {
		out.Positions = append(out.Positions[:0:0], item.Positions...)
	}
	if item.Height != nil {
		h := *item.Height
		out.Height = &h
	}
	if item.Birthdate != nil {
		bd := *item.Birthdate
		out.Birthdate = &bd
	}
	return out
}
