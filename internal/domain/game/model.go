package game

import (
	"fmt"
	"time"

	"github.com/courtdata/courtsync/internal/canonical"
)

// Game is a provider-scoped game record. Games are deliberately not
// deduplicated across sources: two providers covering the same real-world
// game keep separate rows, each keyed by (source, external id).
type Game struct {
	ID          string
	SeasonID    string
	Source      string
	ExternalID  string
	HomeTeamID  string
	AwayTeamID  string
	ScheduledAt time.Time
	Status      canonical.GameStatus
	HomeScore   *int
	AwayScore   *int
	Venue       string
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.SeasonID == "" {
		return fmt.Errorf("game season id is required")
	}
	if g.Source == "" || g.ExternalID == "" {
		return fmt.Errorf("game source and external id are required")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return fmt.Errorf("game team ids are required")
	}
	return nil
}
