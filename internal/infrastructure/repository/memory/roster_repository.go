package memory

import (
	"context"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/roster"
)

type RosterRepository struct {
	mu   sync.RWMutex
	rows map[string]roster.Membership // player \x00 team \x00 season
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{rows: make(map[string]roster.Membership)}
}

func membershipKey(item roster.Membership) string {
	return item.PlayerID + "\x00" + item.TeamID + "\x00" + item.SeasonID
}

func (r *RosterRepository) Upsert(_ context.Context, item roster.Membership) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey(item)
	if existing, ok := r.rows[key]; ok {
		if item.JerseyNumber == nil {
			item.JerseyNumber = existing.JerseyNumber
		}
		if len(item.Positions) == 0 {
			item.Positions = existing.Positions
		}
	}
	r.rows[key] = item
	return nil
}

func (r *RosterRepository) ListByTeamSeason(_ context.Context, teamID, seasonID string) ([]roster.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []roster.Membership
	for _, item := range r.rows {
		if item.TeamID == teamID && item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *RosterRepository) ListByPlayer(_ context.Context, playerID string) ([]roster.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []roster.Membership
	for _, item := range r.rows {
		if item.PlayerID == playerID {
			out = append(out, item)
		}
	}
	return out, nil
}

// playerIDsByTeam supports the player repository's roster-history lookup.
func (r *RosterRepository) playerIDsByTeam(teamID string) map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{})
	for _, item := range r.rows {
		if item.TeamID == teamID {
			out[item.PlayerID] = struct{}{}
		}
	}
	return out
}
