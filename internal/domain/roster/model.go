package roster

import (
	"fmt"

	"github.com/courtdata/courtsync/internal/canonical"
)

// Membership is one (player, team, season) roster row. It doubles as the
// player-team history used by the deduplicator's team-scoped tier.
type Membership struct {
	PlayerID     string
	TeamID       string
	SeasonID     string
	JerseyNumber *int
	Positions    []canonical.Position
}

func (m Membership) Validate() error {
	if m.PlayerID == "" || m.TeamID == "" || m.SeasonID == "" {
		return fmt.Errorf("roster membership requires player, team and season ids")
	}
	return nil
}
